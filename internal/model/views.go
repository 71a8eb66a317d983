// views.go
package model

import "time"

// Vistas de lectura que devuelven los pipelines de agregación.
// Los tags bson tienen que coincidir con las claves de cada $project.

type OrderSummary struct {
	ID       string    `bson:"id" json:"id"`
	UserID   string    `bson:"id_user" json:"idUser"`
	UserName string    `bson:"user_name" json:"userName"`
	Date     time.Time `bson:"date" json:"date"`
	Subtotal float64   `bson:"subtotal" json:"subtotal"`
	Taxes    float64   `bson:"taxes" json:"taxes"`
	Discount float64   `bson:"discount" json:"discount"`
	Total    float64   `bson:"total" json:"total"`
}

type OrderDetailView struct {
	ID          string    `bson:"id" json:"id"`
	ProductID   string    `bson:"id_producto" json:"idProducto"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	Active      bool      `bson:"active" json:"active"`
	DateCreated time.Time `bson:"date_created" json:"dateCreated"`
	DateUpdated time.Time `bson:"date_updated" json:"dateUpdated"`
}

type StatusRecordView struct {
	ID       string    `bson:"id" json:"id"`
	StatusID string    `bson:"id_status" json:"idStatus"`
	Date     time.Time `bson:"date" json:"date"`
}

// Orden desnormalizada con usuario, detalles e historial de estados.
type OrderDetailed struct {
	ID            string             `bson:"id" json:"id"`
	UserID        string             `bson:"id_user" json:"idUser"`
	UserInfo      User               `bson:"user_info" json:"userInfo"`
	Date          time.Time          `bson:"date" json:"date"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	Taxes         float64            `bson:"taxes" json:"taxes"`
	Discount      float64            `bson:"discount" json:"discount"`
	Total         float64            `bson:"total" json:"total"`
	Details       []OrderDetailView  `bson:"details" json:"details"`
	StatusHistory []StatusRecordView `bson:"status_history" json:"statusHistory"`
}

// Resultado de la búsqueda de una orden "inprogress" del usuario.
type InProgressOrder struct {
	ID       string    `bson:"_id" json:"id"`
	UserID   string    `bson:"id_user" json:"idUser"`
	Date     time.Time `bson:"date" json:"date"`
	Subtotal float64   `bson:"subtotal" json:"subtotal"`
	Taxes    float64   `bson:"taxes" json:"taxes"`
	Discount float64   `bson:"discount" json:"discount"`
	Total    float64   `bson:"total" json:"total"`
	Status   string    `bson:"status" json:"status"`
}

type StatusView struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	Active      bool   `bson:"active" json:"active"`
}

type OrderRef struct {
	ID    string    `bson:"id" json:"id"`
	Date  time.Time `bson:"date" json:"date"`
	Total float64   `bson:"total" json:"total"`
}

type StatusWithOrders struct {
	ID          string     `bson:"id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Description string     `bson:"description" json:"description"`
	Active      bool       `bson:"active" json:"active"`
	Orders      []OrderRef `bson:"orders" json:"orders"`
}

// Filas de los reportes agregados.

type SalesByStatusRow struct {
	OrderStatus string  `bson:"order_status" json:"orderStatus"`
	TotalSales  float64 `bson:"total_sales" json:"totalSales"`
	Count       int64   `bson:"count" json:"count"`
}

type AvgSalesByUserRow struct {
	User     string  `bson:"user" json:"user"`
	AvgSales float64 `bson:"avg_sales" json:"avgSales"`
	Count    int64   `bson:"count" json:"count"`
}

type OrderCountByStatusRow struct {
	OrderStatus string `bson:"order_status" json:"orderStatus"`
	OrderCount  int64  `bson:"order_count" json:"orderCount"`
}
