package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bundle-admin/internal/models"
)

// Errores del repositorio
var (
	ErrInvalidID = errors.New("invalid bundle ID")
	ErrNotFound  = errors.New("bundle not found")
)

type BundleRepository struct {
	collection *mongo.Collection
}

func NewBundleRepository(collection *mongo.Collection) *BundleRepository {
	return &BundleRepository{
		collection: collection,
	}
}

// Create crea un nuevo bundle
func (r *BundleRepository) Create(ctx context.Context, bundle *models.BundleDraft) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	bundle.ID = primitive.NewObjectID()
	bundle.CreatedAt = time.Now()
	bundle.UpdatedAt = time.Now()
	bundle.IsDeleted = false

	_, err := r.collection.InsertOne(ctx, bundle)
	return err
}

// FindByID obtiene un bundle por ID
func (r *BundleRepository) FindByID(ctx context.Context, id string) (*models.BundleDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var bundle models.BundleDraft
	filter := bson.M{
		"_id":        objID,
		"is_deleted": false,
	}

	err = r.collection.FindOne(ctx, filter).Decode(&bundle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &bundle, nil
}

// FindAll lista bundles filtrando por estado y búsqueda por nombre,
// ordenados por última actualización
func (r *BundleRepository) FindAll(ctx context.Context, status, search string) ([]*models.BundleDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"is_deleted": false}

	if status != "" && status != "all" {
		filter["status"] = status
	}
	if search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(200)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bundles := []*models.BundleDraft{}
	if err = cursor.All(ctx, &bundles); err != nil {
		return nil, err
	}

	return bundles, nil
}

// Update actualiza parcialmente un bundle
func (r *BundleRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	// Agregar updated_at automáticamente
	update["updated_at"] = time.Now()

	filter := bson.M{
		"_id":        objID,
		"is_deleted": false,
	}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{"$set": update},
	)

	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// SoftDelete marca un bundle como eliminado y lo pausa implícitamente
func (r *BundleRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	filter := bson.M{
		"_id":        objID,
		"is_deleted": false,
	}

	update := bson.M{
		"$set": bson.M{
			"is_deleted": true,
			"status":     models.StatusPaused,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// CountByStatus cuenta bundles vivos agrupados por estado
func (r *BundleRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_deleted": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
