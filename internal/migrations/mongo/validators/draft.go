package validators

import "go.mongodb.org/mongo-driver/bson"

// guestSchema and recordSchema mirror the wire contract of occupancy
// records; the field names here are load-bearing for previously persisted
// drafts.
var guestSchema = bson.M{
	"bsonType": "object",
	"required": []string{"gender", "age", "status", "nationality"},
	"properties": bson.M{
		"gender": bson.M{
			"bsonType": "string",
			"enum":     []string{"male", "female"},
		},
		"age": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  120,
		},
		"status": bson.M{
			"bsonType":  "string",
			"minLength": 2,
			"maxLength": 50,
		},
		"nationality": bson.M{
			"bsonType":  "string",
			"minLength": 2,
			"maxLength": 80,
		},
		"isCheckIn": bson.M{
			"bsonType": "bool",
		},
	},
}

var recordSchema = bson.M{
	"bsonType": "object",
	"required": []string{
		"day",
		"room",
		"guests",
		"lengthOfStay",
		"stayId",
		"startDay",
		"startMonth",
		"startYear",
		"isStartDay",
	},
	"properties": bson.M{
		"day": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  31,
		},
		"room": bson.M{
			"bsonType": "int",
			"minimum":  1,
		},
		"guests": bson.M{
			"bsonType": "array",
			"items":    guestSchema,
		},
		"lengthOfStay": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  365,
		},
		"isCheckIn": bson.M{
			"bsonType": "bool",
		},
		"stayId": bson.M{
			"bsonType":  "string",
			"minLength": 36,
			"maxLength": 36,
		},
		"startDay": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  31,
		},
		"startMonth": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  12,
		},
		"startYear": bson.M{
			"bsonType": "int",
			"minimum":  2000,
			"maximum":  2100,
		},
		"isStartDay": bson.M{
			"bsonType": "bool",
		},
	},
}

var DraftValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"ownerId",
			"year",
			"month",
			"records",
			"updatedAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"ownerId": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"year": bson.M{
				"bsonType": "int",
				"minimum":  2000,
				"maximum":  2100,
			},

			"month": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  12,
			},

			"records": bson.M{
				"bsonType": "array",
				"items":    recordSchema,
			},

			"updatedAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
