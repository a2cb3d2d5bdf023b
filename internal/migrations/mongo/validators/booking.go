package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"reference",
			"patient_name",
			"provider_name",
			"date",
			"time",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"reference": bson.M{
				"bsonType": "string",
				"pattern":  "^[A-Z0-9]{8}$",
			},

			"patient_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"patient_age": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  150,
			},

			"provider_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"specialty": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{4}-\\d{2}-\\d{2}$",
			},

			"time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
