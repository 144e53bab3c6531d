package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// listingDocument is a listing as stored in a Mongo collection
type listingDocument struct {
	ID                 int64         `bson:"id"`
	Name               string        `bson:"name"`
	HostID             int64         `bson:"host_id"`
	HostName           string        `bson:"host_name"`
	NeighbourhoodGroup string        `bson:"neighbourhood_group"`
	Neighbourhood      string        `bson:"neighbourhood"`
	Latitude           *float64      `bson:"latitude"`
	Longitude          *float64      `bson:"longitude"`
	RoomType           string        `bson:"room_type"`
	Price              float64       `bson:"price"`
	MinimumNights      int           `bson:"minimum_nights"`
	NumberOfReviews    int           `bson:"number_of_reviews"`
	LastReview         bson.RawValue `bson:"last_review"`
	ReviewsPerMonth    *float64      `bson:"reviews_per_month"`
	HostListingsCount  int           `bson:"calculated_host_listings_count"`
	Availability365    int           `bson:"availability_365"`
}

// toListing converts the document, accepting last_review as a date or a YYYY-MM-DD string
func (d *listingDocument) toListing() (*models.Listing, error) {
	l := &models.Listing{
		ID:                 d.ID,
		Name:               d.Name,
		HostID:             d.HostID,
		HostName:           d.HostName,
		NeighbourhoodGroup: d.NeighbourhoodGroup,
		Neighbourhood:      d.Neighbourhood,
		Latitude:           nullFloat(d.Latitude),
		Longitude:          nullFloat(d.Longitude),
		RoomType:           d.RoomType,
		Price:              d.Price,
		MinimumNights:      d.MinimumNights,
		NumberOfReviews:    d.NumberOfReviews,
		ReviewsPerMonth:    nullFloat(d.ReviewsPerMonth),
		HostListingsCount:  d.HostListingsCount,
		Availability365:    d.Availability365,
	}

	switch d.LastReview.Type {
	case bsontype.DateTime:
		l.LastReview = sql.NullTime{Time: d.LastReview.Time().UTC(), Valid: true}
	case bsontype.String:
		if s := d.LastReview.StringValue(); s != "" {
			t, err := time.Parse(models.DateLayout, s)
			if err != nil {
				return nil, fmt.Errorf("listing %d: invalid last_review %q: %w", d.ID, s, err)
			}
			l.LastReview = sql.NullTime{Time: t, Valid: true}
		}
	}
	if err := checkFinite(l); err != nil {
		return nil, err
	}
	return l, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// MongoSource reads listings from a Mongo collection
type MongoSource struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *utils.Logger
}

// NewMongoSource connects to Mongo and pings the primary
func NewMongoSource(ctx context.Context, uri, database, collection string, logger *utils.Logger) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping Mongo: %w", err)
	}

	logger.Info("Connected to Mongo successfully")
	return &MongoSource{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger,
	}, nil
}

func (s *MongoSource) Name() string {
	return "mongo:" + s.collection.Database().Name() + "." + s.collection.Name()
}

// Load reads every document of the collection ordered by listing id
func (s *MongoSource) Load(ctx context.Context) ([]*models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.Name(), err)
	}
	defer cursor.Close(ctx)

	var listings []*models.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode listing document: %w", err)
		}
		l, err := doc.toListing()
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", s.Name(), err)
	}
	if len(listings) == 0 {
		return nil, ErrEmptyDataset
	}

	s.logger.Info("Read %d listings from %s", len(listings), s.Name())
	return listings, nil
}

// Close disconnects the client
func (s *MongoSource) Close(ctx context.Context) {
	if s.client != nil {
		_ = s.client.Disconnect(ctx)
	}
}
