// orders.go
package pipeline

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pipelines de agregación sobre la colección orders. Son funciones
// puras: arman la lista de etapas y nada más, no tocan la base.
// id_user e id_order viajan como string, así que cada $lookup convierte
// con $toObjectId / $toString según la dirección del join.

// lookupUserInfo une la orden con su usuario dueño.
func lookupUserInfo() bson.M {
	return bson.M{"$lookup": bson.M{
		"from": "users",
		"let":  bson.M{"user_id": bson.M{"$toObjectId": "$id_user"}},
		"pipeline": []bson.M{
			{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$user_id"}}}},
		},
		"as": "user_info",
	}}
}

func orderSummaryProjection() bson.M {
	return bson.M{"$project": bson.M{
		"id":        bson.M{"$toString": "$_id"},
		"id_user":   "$id_user",
		"user_name": bson.M{"$arrayElemAt": bson.A{"$user_info.name", 0}},
		"date":      1,
		"subtotal":  1,
		"taxes":     1,
		"discount":  1,
		"total":     1,
		"_id":       0,
	}}
}

// AllOrders lista todas las órdenes con el nombre del usuario,
// ordenadas por fecha descendente y paginadas.
func AllOrders(skip, limit int64) []bson.M {
	return []bson.M{
		lookupUserInfo(),
		orderSummaryProjection(),
		{"$sort": bson.M{"date": -1}},
		{"$skip": skip},
		{"$limit": limit},
	}
}

// OrdersByUser lista las órdenes de un usuario puntual.
func OrdersByUser(userID string, skip, limit int64) []bson.M {
	return []bson.M{
		{"$match": bson.M{"id_user": userID}},
		lookupUserInfo(),
		orderSummaryProjection(),
		{"$sort": bson.M{"date": -1}},
		{"$skip": skip},
		{"$limit": limit},
	}
}

// OrderByID arma una orden desnormalizada: usuario, detalles e
// historial de estados en un solo documento.
func OrderByID(orderID primitive.ObjectID) []bson.M {
	return []bson.M{
		{"$match": bson.M{"_id": orderID}},
		lookupUserInfo(),
		{"$lookup": bson.M{
			"from": "order_details",
			"let":  bson.M{"order_id": bson.M{"$toString": "$_id"}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$id_order", "$$order_id"}}}},
			},
			"as": "details",
		}},
		{"$lookup": bson.M{
			"from": "order_status_record",
			"let":  bson.M{"order_id": bson.M{"$toString": "$_id"}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$id_order", "$$order_id"}}}},
			},
			"as": "status_history",
		}},
		{"$project": bson.M{
			"id":        bson.M{"$toString": "$_id"},
			"id_user":   "$id_user",
			"user_info": bson.M{"$arrayElemAt": bson.A{"$user_info", 0}},
			"date":      1,
			"subtotal":  1,
			"taxes":     1,
			"discount":  1,
			"total":     1,
			"details": bson.M{"$map": bson.M{
				"input": "$details",
				"as":    "detail",
				"in": bson.M{
					"id":           bson.M{"$toString": "$$detail._id"},
					"id_producto":  "$$detail.id_producto",
					"quantity":     "$$detail.quantity",
					"active":       "$$detail.active",
					"date_created": "$$detail.date_created",
					"date_updated": "$$detail.date_updated",
				},
			}},
			"status_history": bson.M{"$map": bson.M{
				"input": "$status_history",
				"as":    "status",
				"in": bson.M{
					"id":        bson.M{"$toString": "$$status._id"},
					"id_status": "$$status.id_status",
					"date":      "$$status.date",
				},
			}},
			"_id": 0,
		}},
	}
}

// ValidateUserExists devuelve a lo sumo un documento mínimo que
// confirma que el usuario existe.
func ValidateUserExists(userID primitive.ObjectID) []bson.M {
	return []bson.M{
		{"$match": bson.M{"_id": userID}},
		{"$project": bson.M{"_id": 1}},
		{"$limit": 1},
	}
}

// OrderOwner proyecta solamente el dueño de una orden, para chequeos
// de autorización.
func OrderOwner(orderID primitive.ObjectID) []bson.M {
	return []bson.M{
		{"$match": bson.M{"_id": orderID}},
		{"$project": bson.M{"id_user": "$id_user"}},
		{"$limit": 1},
	}
}

// ExistingInProgressOrder busca una orden del usuario cuyo estado
// ACTUAL sea "inprogress". El estado actual es siempre el registro de
// historial con fecha máxima; órdenes sin historial quedan afuera.
func ExistingInProgressOrder(userID string) []bson.M {
	return []bson.M{
		{"$match": bson.M{"id_user": userID}},

		// Último registro de historial por orden: orden descendente
		// por fecha y nos quedamos con uno solo.
		{"$lookup": bson.M{
			"from": "order_status_record",
			"let":  bson.M{"order_id": bson.M{"$toString": "$_id"}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$id_order", "$$order_id"}}}},
				{"$sort": bson.M{"date": -1}},
				{"$limit": 1},
			},
			"as": "latest_status_array",
		}},
		{"$addFields": bson.M{
			"latest_status": bson.M{"$arrayElemAt": bson.A{"$latest_status_array", 0}},
		}},

		// Sin historial no hay estado actual que evaluar.
		{"$match": bson.M{"latest_status": bson.M{"$exists": true}}},

		{"$lookup": bson.M{
			"from": "order_statuses",
			"let":  bson.M{"status_id": bson.M{"$toObjectId": "$latest_status.id_status"}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$status_id"}}}},
			},
			"as": "status_info",
		}},

		// Comparación exacta contra la descripción normalizada.
		{"$match": bson.M{"status_info.description": "inprogress"}},

		{"$project": bson.M{
			"_id":      bson.M{"$toString": "$_id"},
			"id_user":  "$id_user",
			"date":     1,
			"subtotal": bson.M{"$ifNull": bson.A{"$subtotal", 0.0}},
			"taxes":    bson.M{"$ifNull": bson.A{"$taxes", 0.0}},
			"discount": bson.M{"$ifNull": bson.A{"$discount", 0.0}},
			"total":    bson.M{"$ifNull": bson.A{"$total", 0.0}},
			"status":   bson.M{"$arrayElemAt": bson.A{"$status_info.description", 0}},
		}},

		{"$limit": 1},
	}
}
