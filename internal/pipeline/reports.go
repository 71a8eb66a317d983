// reports.go
package pipeline

import "go.mongodb.org/mongo-driver/bson"

// Reportes agregados sobre orders. El $unwind posterior al $lookup
// descarta en silencio las órdenes con referencias colgantes: una
// orden que apunta a un estado o usuario inexistente no emite fila.
// La clave de grupo es string, por eso $convert (onError/onNull nulos)
// antes de comparar contra _id.

func lookupByGroupKey(from string) []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from": from,
			"let": bson.M{"ref_id": bson.M{"$convert": bson.M{
				"input":   "$_id",
				"to":      "objectId",
				"onError": nil,
				"onNull":  nil,
			}}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$ref_id"}}}},
			},
			"as": from,
		}},
		{"$unwind": "$" + from},
	}
}

// TotalSalesByStatus suma el total vendido por estado de orden.
func TotalSalesByStatus() []bson.M {
	p := []bson.M{
		{"$group": bson.M{
			"_id":         "$id_order_status",
			"total_sales": bson.M{"$sum": "$total"},
			"count":       bson.M{"$sum": 1},
		}},
	}
	p = append(p, lookupByGroupKey("order_statuses")...)
	return append(p, bson.M{"$project": bson.M{
		"order_status": "$order_statuses.description",
		"total_sales":  1,
		"count":        1,
	}})
}

// AvgSalesByUser calcula el promedio de ventas por usuario.
func AvgSalesByUser() []bson.M {
	p := []bson.M{
		{"$group": bson.M{
			"_id":       "$id_user",
			"avg_sales": bson.M{"$avg": "$total"},
			"count":     bson.M{"$sum": 1},
		}},
	}
	p = append(p, lookupByGroupKey("users")...)
	return append(p, bson.M{"$project": bson.M{
		"user":      "$users.email",
		"avg_sales": 1,
		"count":     1,
	}})
}

// OrderCountByStatus cuenta órdenes por estado.
func OrderCountByStatus() []bson.M {
	p := []bson.M{
		{"$group": bson.M{
			"_id":         "$id_order_status",
			"order_count": bson.M{"$sum": 1},
		}},
	}
	p = append(p, lookupByGroupKey("order_statuses")...)
	return append(p, bson.M{"$project": bson.M{
		"order_status": "$order_statuses.description",
		"order_count":  1,
	}})
}
