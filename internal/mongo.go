package internal

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dotpay/config"
	"dotpay/entity"
	"dotpay/services"
)

const (
	collectionLog           = "payment_log"
	collectionPayments      = "payments"
	collectionOperations    = "operations"
	collectionNotifications = "notifications"
	collectionCards         = "credit_cards"
)

// MongoDB implements services.Database. Connections are short lived:
// every call connects, works and disconnects.
type MongoDB struct {
	clientOptions *options.ClientOptions
	database      string
}

// NewMongoClient builds the database layer from configuration.
func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	return &MongoDB{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}, nil
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(ctx context.Context, connection *mongo.Client) {
	if err := connection.Disconnect(ctx); err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

func (m *MongoDB) WriteLogMessage(data services.Data) error {
	ctx := context.Background()
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionLog)
	_, err = collection.InsertOne(ctx, data)
	return err
}

func (m *MongoDB) SavePayment(ctx context.Context, payment *entity.PaymentRecord) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	filter := bson.D{{Key: "control", Value: payment.Control}}
	set := bson.M{"$set": payment}
	collection := connection.Database(m.database).Collection(collectionPayments)
	_, err = collection.UpdateOne(ctx, filter, set, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetPayment(ctx context.Context, control string) (*entity.PaymentRecord, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	filter := bson.D{{Key: "control", Value: control}}
	collection := connection.Database(m.database).Collection(collectionPayments)
	var payment entity.PaymentRecord
	if err = collection.FindOne(ctx, filter).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (m *MongoDB) UpdatePaymentStatus(ctx context.Context, control, status, operationNumber string) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionPayments)
	filter := bson.D{{Key: "control", Value: control}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "operation_number", Value: operationNumber},
		}},
	}
	if _, err = collection.UpdateOne(ctx, filter, update); err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) SaveOperation(ctx context.Context, operation *entity.Operation) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	filter := bson.D{{Key: "operation_number", Value: operation.Number}}
	set := bson.M{"$set": operation}
	collection := connection.Database(m.database).Collection(collectionOperations)
	_, err = collection.UpdateOne(ctx, filter, set, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetOperationByNumber(ctx context.Context, number string) (*entity.Operation, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	filter := bson.D{{Key: "operation_number", Value: number}}
	collection := connection.Database(m.database).Collection(collectionOperations)
	var operation entity.Operation
	if err = collection.FindOne(ctx, filter).Decode(&operation); err != nil {
		return nil, err
	}
	return &operation, nil
}

func (m *MongoDB) SaveNotification(ctx context.Context, record *entity.NotificationRecord) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionNotifications)
	_, err = collection.InsertOne(ctx, record)
	return err
}

func (m *MongoDB) SaveCreditCard(ctx context.Context, operationNumber string, card *entity.CreditCard) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	filter := bson.D{{Key: "operation_number", Value: operationNumber}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "operation_number", Value: operationNumber},
			{Key: "card", Value: card},
		}},
	}
	collection := connection.Database(m.database).Collection(collectionCards)
	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
