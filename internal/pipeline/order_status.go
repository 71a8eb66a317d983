// order_status.go
package pipeline

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pipelines sobre la colección order_statuses.

func statusProjection() bson.M {
	return bson.M{"$project": bson.M{
		"id":          bson.M{"$toString": "$_id"},
		"name":        "$name",
		"description": "$description",
		"active":      "$active",
	}}
}

// StatusWithOrders trae un estado junto con un resumen de las órdenes
// que lo referencian (id_order_status guarda el hex como string).
func StatusWithOrders(statusID primitive.ObjectID) []bson.M {
	return []bson.M{
		{"$match": bson.M{"_id": statusID}},
		{"$lookup": bson.M{
			"from": "orders",
			"let":  bson.M{"status_id": bson.M{"$toString": "$_id"}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$id_order_status", "$$status_id"}}}},
			},
			"as": "orders",
		}},
		{"$project": bson.M{
			"id":          bson.M{"$toString": "$_id"},
			"name":        "$name",
			"description": "$description",
			"active":      "$active",
			"orders": bson.M{"$map": bson.M{
				"input": "$orders",
				"as":    "order",
				"in": bson.M{
					"id":    bson.M{"$toString": "$$order._id"},
					"date":  "$$order.date",
					"total": "$$order.total",
				},
			}},
		}},
	}
}

// AllStatuses lista los estados activos, paginados.
func AllStatuses(skip, limit int64) []bson.M {
	return []bson.M{
		{"$match": bson.M{"active": true}},
		statusProjection(),
		{"$skip": skip},
		{"$limit": limit},
	}
}

// ValidateStatus devuelve el estado solo si existe y está activo.
func ValidateStatus(statusID primitive.ObjectID) []bson.M {
	return []bson.M{
		{"$match": bson.M{"_id": statusID, "active": true}},
		statusProjection(),
	}
}

// SearchStatuses busca por nombre o descripción, sin distinguir
// mayúsculas, solo entre estados activos.
func SearchStatuses(term string, skip, limit int64) []bson.M {
	return []bson.M{
		{"$match": bson.M{
			"$or": []bson.M{
				{"name": primitive.Regex{Pattern: term, Options: "i"}},
				{"description": primitive.Regex{Pattern: term, Options: "i"}},
			},
			"active": true,
		}},
		statusProjection(),
		{"$skip": skip},
		{"$limit": limit},
	}
}
