package repository

import (
	"context"

	"orders-query-service/internal/model"
	"orders-query-service/internal/pipeline"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// aggregate corre un pipeline y decodifica el cursor completo.
func aggregate[T any](ctx context.Context, col *mongo.Collection, pipe []bson.M) ([]T, error) {
	cur, err := col.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []T
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

// aggregateOne corre un pipeline que devuelve a lo sumo un documento.
func aggregateOne[T any](ctx context.Context, col *mongo.Collection, pipe []bson.M) (*T, error) {
	res, err := aggregate[T](ctx, col, pipe)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, nil
	}
	return &res[0], nil
}

// Mongo implementation
type MongoStatusRepository struct {
	col *mongo.Collection
}

func NewMongoStatusRepository(db *mongo.Database) *MongoStatusRepository {
	return &MongoStatusRepository{col: db.Collection("order_statuses")}
}

func (m *MongoStatusRepository) Insert(ctx context.Context, st *model.OrderStatus) (primitive.ObjectID, error) {
	res, err := m.col.InsertOne(ctx, st)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// FindByID devuelve (nil, nil) si el documento no existe.
func (m *MongoStatusRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.OrderStatus, error) {
	var st model.OrderStatus
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// FindByDescription busca por descripción normalizada, activos e
// inactivos por igual. exclude permite dejar afuera al propio registro
// en el chequeo de duplicados del update.
func (m *MongoStatusRepository) FindByDescription(ctx context.Context, description string, exclude primitive.ObjectID) (*model.OrderStatus, error) {
	filter := bson.M{"description": description}
	if exclude != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": exclude}
	}

	var st model.OrderStatus
	err := m.col.FindOne(ctx, filter).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (m *MongoStatusRepository) Update(ctx context.Context, id primitive.ObjectID, st *model.OrderStatus) (int64, error) {
	update := bson.M{"$set": bson.M{
		"name":        st.Name,
		"description": st.Description,
		"active":      st.Active,
	}}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (m *MongoStatusRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoStatusRepository) All(ctx context.Context, skip, limit int64) ([]model.StatusView, error) {
	return aggregate[model.StatusView](ctx, m.col, pipeline.AllStatuses(skip, limit))
}

func (m *MongoStatusRepository) WithOrders(ctx context.Context, id primitive.ObjectID) (*model.StatusWithOrders, error) {
	return aggregateOne[model.StatusWithOrders](ctx, m.col, pipeline.StatusWithOrders(id))
}

func (m *MongoStatusRepository) Validate(ctx context.Context, id primitive.ObjectID) (*model.StatusView, error) {
	return aggregateOne[model.StatusView](ctx, m.col, pipeline.ValidateStatus(id))
}

func (m *MongoStatusRepository) Search(ctx context.Context, term string, skip, limit int64) ([]model.StatusView, error) {
	return aggregate[model.StatusView](ctx, m.col, pipeline.SearchStatuses(term, skip, limit))
}

type MongoOrderRepository struct {
	orders  *mongo.Collection
	users   *mongo.Collection
	records *mongo.Collection
	details *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		orders:  db.Collection("orders"),
		users:   db.Collection("users"),
		records: db.Collection("order_status_record"),
		details: db.Collection("order_details"),
	}
}

func (m *MongoOrderRepository) All(ctx context.Context, skip, limit int64) ([]model.OrderSummary, error) {
	return aggregate[model.OrderSummary](ctx, m.orders, pipeline.AllOrders(skip, limit))
}

func (m *MongoOrderRepository) ByUser(ctx context.Context, userID string, skip, limit int64) ([]model.OrderSummary, error) {
	return aggregate[model.OrderSummary](ctx, m.orders, pipeline.OrdersByUser(userID, skip, limit))
}

func (m *MongoOrderRepository) ByID(ctx context.Context, id primitive.ObjectID) (*model.OrderDetailed, error) {
	return aggregateOne[model.OrderDetailed](ctx, m.orders, pipeline.OrderByID(id))
}

// Owner devuelve el id_user de la orden, o "" si no existe.
func (m *MongoOrderRepository) Owner(ctx context.Context, id primitive.ObjectID) (string, error) {
	type ownerDoc struct {
		UserID string `bson:"id_user"`
	}
	doc, err := aggregateOne[ownerDoc](ctx, m.orders, pipeline.OrderOwner(id))
	if err != nil || doc == nil {
		return "", err
	}
	return doc.UserID, nil
}

func (m *MongoOrderRepository) UserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	doc, err := aggregateOne[bson.M](ctx, m.users, pipeline.ValidateUserExists(id))
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

func (m *MongoOrderRepository) InProgressByUser(ctx context.Context, userID string) (*model.InProgressOrder, error) {
	return aggregateOne[model.InProgressOrder](ctx, m.orders, pipeline.ExistingInProgressOrder(userID))
}

func (m *MongoOrderRepository) TotalSalesByStatus(ctx context.Context) ([]model.SalesByStatusRow, error) {
	return aggregate[model.SalesByStatusRow](ctx, m.orders, pipeline.TotalSalesByStatus())
}

func (m *MongoOrderRepository) AvgSalesByUser(ctx context.Context) ([]model.AvgSalesByUserRow, error) {
	return aggregate[model.AvgSalesByUserRow](ctx, m.orders, pipeline.AvgSalesByUser())
}

func (m *MongoOrderRepository) CountByStatus(ctx context.Context) ([]model.OrderCountByStatusRow, error) {
	return aggregate[model.OrderCountByStatusRow](ctx, m.orders, pipeline.OrderCountByStatus())
}

// Escritura usada por el flujo de ciclo de vida (consumer de rabbit).

func (m *MongoOrderRepository) InsertOrder(ctx context.Context, o *model.Order) (primitive.ObjectID, error) {
	res, err := m.orders.InsertOne(ctx, o)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// AppendStatusRecord agrega un registro al historial. Nunca se
// modifica un registro existente.
func (m *MongoOrderRepository) AppendStatusRecord(ctx context.Context, r *model.OrderStatusRecord) error {
	_, err := m.records.InsertOne(ctx, r)
	return err
}

func (m *MongoOrderRepository) InsertOrderDetails(ctx context.Context, ds []model.OrderDetail) error {
	docs := make([]interface{}, len(ds))
	for i := range ds {
		docs[i] = ds[i]
	}
	_, err := m.details.InsertMany(ctx, docs)
	return err
}
