package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/blueprint/pkg/cache"
	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/metadata"
)

const mongoConnectTimeout = 10 * time.Second

// MongoSource reads the document from a MongoDB collection. The stored
// document has the same shape as the JSON file; BSON keeps field order, so
// mapping order survives the round trip. With a cache, the converted
// document is kept for the cache TTL so that restarts skip the database.
type MongoSource struct {
	uri        string
	database   string
	collection string
	id         string

	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	refresh bool
}

// NewMongoSource returns a source for a document in opts.Database and
// opts.Collection at uri.
func NewMongoSource(uri string, opts Options) (*MongoSource, error) {
	if opts.Database == "" || opts.Collection == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "mongodb source needs a database and a collection")
	}
	keyer := opts.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	var c cache.Cache
	if opts.Cache != nil {
		c = cache.Instrumented(opts.Cache, "metadata")
	}
	return &MongoSource{
		uri:        uri,
		database:   opts.Database,
		collection: opts.Collection,
		id:         opts.DocumentID,
		cache:      c,
		keyer:      keyer,
		ttl:        opts.CacheTTL,
		refresh:    opts.Refresh,
	}, nil
}

func (s *MongoSource) Load(ctx context.Context) (*metadata.Metadata, error) {
	key := s.keyer.MetadataKey(s.String() + "/" + s.id)
	if s.cache != nil && !s.refresh {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			return metadata.Parse(data)
		}
	}

	data, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}
	return metadata.Parse(data)
}

func (s *MongoSource) fetch(ctx context.Context) ([]byte, error) {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "connect to mongodb")
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	raw, err := client.Database(s.database).Collection(s.collection).
		FindOne(ctx, s.filter(), options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).
		Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "no metadata document in %s.%s", s.database, s.collection)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "find metadata document")
	}
	return documentJSON(raw)
}

func (s *MongoSource) filter() bson.D {
	if s.id == "" {
		return bson.D{}
	}
	if oid, err := primitive.ObjectIDFromHex(s.id); err == nil {
		return bson.D{{Key: "_id", Value: oid}}
	}
	return bson.D{{Key: "_id", Value: s.id}}
}

func (s *MongoSource) String() string {
	return fmt.Sprintf("mongodb:%s.%s", s.database, s.collection)
}

// documentJSON converts a BSON document to relaxed extended JSON, which for
// the metadata schema is plain JSON.
func documentJSON(raw bson.Raw) ([]byte, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidMetadata, err, "convert bson document")
	}
	return data, nil
}
