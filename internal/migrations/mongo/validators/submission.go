package validators

import "go.mongodb.org/mongo-driver/bson"

var SubmissionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"ownerId",
			"year",
			"month",
			"roomCount",
			"days",
			"records",
			"stats",
			"isLate",
			"submittedAt",
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

			"roomCount": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"days": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"day", "checkIns", "overnight", "occupied"},
				},
			},

			"records": bson.M{
				"bsonType": "array",
				"items":    recordSchema,
			},

			"stats": bson.M{
				"bsonType": "object",
				"required": []string{
					"totalCheckIns",
					"totalOvernight",
					"totalOccupied",
				},
			},

			"isLate": bson.M{
				"bsonType": "bool",
			},

			"submittedAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
