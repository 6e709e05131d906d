package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bgbghq67-sys/banga-photobooth-admin/models"
)

const devicesCollection = "devices"

type mongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore returns a DeviceStore backed by the devices collection.
func NewMongoStore(db *mongo.Database) DeviceStore {
	return &mongoStore{
		collection: db.Collection(devicesCollection),
	}
}

// EnsureIndexes creates the partial unique index that makes a machine id
// bindable to at most one record. Only documents where machineId is a string
// participate, so unbound records (machineId null) do not collide.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(devicesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "machineId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"machineId": bson.M{"$type": "string"}}),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure devices indexes: %w", err)
	}
	return nil
}

type deviceDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	MachineID         *string            `bson:"machineId"`
	RemainingSessions int64              `bson:"remainingSessions"`
	Activated         bool               `bson:"activated"`
	ProvisioningCode  string             `bson:"provisioningCode,omitempty"`
	CreatedAt         int64              `bson:"createdAt"`
	LastSeen          *int64             `bson:"lastSeen"`
}

func (d deviceDoc) toModel() models.Device {
	return models.Device{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		MachineID:         d.MachineID,
		RemainingSessions: d.RemainingSessions,
		Activated:         d.Activated,
		ProvisioningCode:  d.ProvisioningCode,
		CreatedAt:         d.CreatedAt,
		LastSeen:          d.LastSeen,
	}
}

func (s *mongoStore) Get(ctx context.Context, id string) (*models.Device, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrDeviceNotFound
	}

	var doc deviceDoc
	err = s.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device %s: %w", id, err)
	}

	device := doc.toModel()
	return &device, nil
}

func (s *mongoStore) findOne(ctx context.Context, filter bson.M) (*models.Device, error) {
	var doc deviceDoc
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to find device: %w", err)
	}

	device := doc.toModel()
	return &device, nil
}

func (s *mongoStore) FindByMachineID(ctx context.Context, machineID string) (*models.Device, error) {
	return s.findOne(ctx, bson.M{"machineId": machineID})
}

func (s *mongoStore) FindByProvisioningCode(ctx context.Context, code string) (*models.Device, error) {
	return s.findOne(ctx, bson.M{"provisioningCode": code})
}

func (s *mongoStore) List(ctx context.Context) ([]models.Device, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer cursor.Close(ctx)

	devices := make([]models.Device, 0)
	for cursor.Next(ctx) {
		var doc deviceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode device: %w", err)
		}
		devices = append(devices, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}

	return devices, nil
}

func (s *mongoStore) Insert(ctx context.Context, device *models.Device) error {
	doc := deviceDoc{
		Name:              device.Name,
		MachineID:         device.MachineID,
		RemainingSessions: device.RemainingSessions,
		Activated:         device.Activated,
		ProvisioningCode:  device.ProvisioningCode,
		CreatedAt:         device.CreatedAt,
		LastSeen:          device.LastSeen,
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateMachineID
		}
		return fmt.Errorf("failed to insert device: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		device.ID = oid.Hex()
	}

	return nil
}

func (s *mongoStore) Update(ctx context.Context, id string, fields Fields) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrDeviceNotFound
	}

	set := bson.M{}
	for key, value := range fields {
		set[key] = value
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateMachineID
		}
		return fmt.Errorf("failed to update device %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrDeviceNotFound
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete device %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

func (s *mongoStore) IncrementSessions(ctx context.Context, id string, delta int64, now int64) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrDeviceNotFound
	}

	update := bson.M{
		"$inc": bson.M{"remainingSessions": delta},
		"$set": bson.M{"lastSeen": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc deviceDoc
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrDeviceNotFound
		}
		return 0, fmt.Errorf("failed to add sessions to device %s: %w", id, err)
	}

	return doc.RemainingSessions, nil
}

func (s *mongoStore) DecrementSession(ctx context.Context, machineID string, now int64) (int64, error) {
	// The filter on remainingSessions makes the read-check-write a single
	// atomic server-side step: two concurrent decrements at balance 1 can
	// never both match.
	filter := bson.M{
		"machineId":         machineID,
		"remainingSessions": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"remainingSessions": -1},
		"$set": bson.M{"lastSeen": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc deviceDoc
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.RemainingSessions, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to decrement device session: %w", err)
	}

	// No match: either the machine id is unknown or the balance is zero.
	if _, findErr := s.FindByMachineID(ctx, machineID); findErr != nil {
		return 0, findErr
	}
	return 0, ErrNoSessions
}

func (s *mongoStore) Count(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count devices: %w", err)
	}
	return count, nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, nil)
}
