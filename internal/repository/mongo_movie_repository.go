package repository

import (
	"context"
	"errors"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// movieDocument is the stored shape of a movie in the Movies collection.
// Absent optional fields are written as explicit nulls, so a replace of an
// unchanged document reports no modification.
type movieDocument struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	Title          string        `bson:"Title"`
	Genre          *string       `bson:"Genre"`
	Rating         *int          `bson:"Rating"`
	PosterImage    *string       `bson:"PosterImage"`
	PosterImageKey *string       `bson:"PosterImageKey"`
}

func newMovieDocument(m *models.Movie, id bson.ObjectID) movieDocument {
	return movieDocument{
		ID:             id,
		Title:          m.Title,
		Genre:          m.Genre,
		Rating:         m.Rating,
		PosterImage:    m.PosterImage,
		PosterImageKey: m.PosterImageKey,
	}
}

func (d movieDocument) toModel() models.Movie {
	return models.Movie{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Genre:          d.Genre,
		Rating:         d.Rating,
		PosterImage:    d.PosterImage,
		PosterImageKey: d.PosterImageKey,
	}
}

type mongoMovieRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoMovieRepository(db *database.MongoDatabase) MovieRepository {
	return &mongoMovieRepository{
		collection: db.Movies(),
		timeout:    db.GetQueryTimeout(),
	}
}

func (r *mongoMovieRepository) FindAll(ctx context.Context, query models.MovieQuery) ([]models.Movie, int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := buildMongoFilter(query)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(buildMongoSort(query)).
		SetSkip(int64(query.Skip())).
		SetLimit(int64(query.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	movies := make([]models.Movie, 0, len(docs))
	for _, doc := range docs {
		movies = append(movies, doc.toModel())
	}
	return movies, total, nil
}

func (r *mongoMovieRepository) FindByID(ctx context.Context, id string) (*models.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// not an ObjectID, so nothing can match it
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc movieDocument
	err = r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	movie := doc.toModel()
	return &movie, nil
}

func (r *mongoMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := newMovieDocument(movie, bson.NewObjectID())
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}

	movie.ID = doc.ID.Hex()
	return nil
}

func (r *mongoMovieRepository) Update(ctx context.Context, movie *models.Movie) (bool, error) {
	oid, err := bson.ObjectIDFromHex(movie.ID)
	if err != nil {
		return false, ErrNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, newMovieDocument(movie, oid))
	if err != nil {
		return false, err
	}
	if result.MatchedCount == 0 {
		return false, ErrNotFound
	}

	return result.ModifiedCount > 0, nil
}

func (r *mongoMovieRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}
