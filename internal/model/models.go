// models.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Documentos tal como viven en MongoDB. Las referencias entre
// colecciones se guardan como string (hex de ObjectId) y cada $lookup
// hace la conversión explícita.

type OrderStatus struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Active      bool               `bson:"active" json:"active"`
}

type Order struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// id_order_status es una cache desnormalizada del último estado,
	// la mantiene el flujo de ciclo de vida de la orden.
	UserID        string    `bson:"id_user" json:"idUser"`
	OrderStatusID string    `bson:"id_order_status,omitempty" json:"idOrderStatus,omitempty"`
	Date          time.Time `bson:"date" json:"date"`
	Subtotal      float64   `bson:"subtotal" json:"subtotal"`
	Taxes         float64   `bson:"taxes" json:"taxes"`
	Discount      float64   `bson:"discount" json:"discount"`
	Total         float64   `bson:"total" json:"total"`
}

type OrderDetail struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID     string             `bson:"id_order" json:"idOrder"`
	ProductID   string             `bson:"id_producto" json:"idProducto"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Active      bool               `bson:"active" json:"active"`
	DateCreated time.Time          `bson:"date_created" json:"dateCreated"`
	DateUpdated time.Time          `bson:"date_updated" json:"dateUpdated"`
}

// Historial de estados: append-only. El estado actual de una orden es
// el registro con la fecha máxima, nunca se edita un registro viejo.
type OrderStatusRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID  string             `bson:"id_order" json:"idOrder"`
	StatusID string             `bson:"id_status" json:"idStatus"`
	Date     time.Time          `bson:"date" json:"date"`
}

type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}
