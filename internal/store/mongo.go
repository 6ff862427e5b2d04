package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

const (
	usernameIndex = "uniq_username"
	emailIndex    = "uniq_email"
)

// MongoStore handles users and the job catalog in MongoDB. User ids come
// from an atomic counter document; uniqueness from unique indexes.
type MongoStore struct {
	users     *mongo.Collection
	counters  *mongo.Collection
	jobs      *mongo.Collection
	skills    *mongo.Collection
	jobSkills *mongo.Collection
	salaries  *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:     db.Collection("users"),
		counters:  db.Collection("counters"),
		jobs:      db.Collection("jobs"),
		skills:    db.Collection("skills"),
		jobSkills: db.Collection("job_skills"),
		salaries:  db.Collection("salaries"),
	}
}

// EnsureIndexes creates the unique and lookup indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_id")},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(usernameIndex)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndex)},
	})
	if err != nil {
		return fmt.Errorf("mongo user indexes: %w", err)
	}
	if _, err := s.jobs.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}}); err != nil {
		return fmt.Errorf("mongo job index: %w", err)
	}
	if _, err := s.jobSkills.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "job_id", Value: 1}}}); err != nil {
		return fmt.Errorf("mongo job_skills index: %w", err)
	}
	_, err = s.salaries.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "job_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo salary indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) nextID(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("mongo counter %s: %w", name, err)
	}
	return doc.Seq, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	id, err := s.nextID(ctx, "users")
	if err != nil {
		return nil, err
	}
	out := *u
	out.ID = id
	out.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := s.users.InsertOne(ctx, &out); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKind(err)
		}
		return nil, fmt.Errorf("mongo insert user: %w", err)
	}
	return &out, nil
}

func duplicateKind(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, usernameIndex):
		return models.ErrUsernameTaken
	case strings.Contains(msg, emailIndex):
		return models.ErrEmailTaken
	default:
		return fmt.Errorf("mongo insert user: %w", err)
	}
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *MongoStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.findUser(ctx, bson.M{"id": id})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SeedCatalog replaces the catalog collections with c.
func (s *MongoStore) SeedCatalog(ctx context.Context, c models.Catalog) error {
	if err := replaceAll(ctx, s.jobs, c.Jobs); err != nil {
		return fmt.Errorf("seed jobs: %w", err)
	}
	if err := replaceAll(ctx, s.skills, c.Skills); err != nil {
		return fmt.Errorf("seed skills: %w", err)
	}
	if err := replaceAll(ctx, s.jobSkills, c.JobSkills); err != nil {
		return fmt.Errorf("seed job skills: %w", err)
	}
	if err := replaceAll(ctx, s.salaries, c.Salaries); err != nil {
		return fmt.Errorf("seed salaries: %w", err)
	}
	return nil
}

func replaceAll[T any](ctx context.Context, col *mongo.Collection, docs []T) error {
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	batch := make([]interface{}, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}
	_, err := col.InsertMany(ctx, batch)
	return err
}

func (s *MongoStore) ListJobs(ctx context.Context) ([]models.Job, error) {
	return findAll[models.Job](ctx, s.jobs, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (s *MongoStore) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	var j models.Job
	if err := s.jobs.FindOne(ctx, bson.M{"id": id}).Decode(&j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (s *MongoStore) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return findAll[models.Skill](ctx, s.skills, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (s *MongoStore) SkillsForJob(ctx context.Context, jobID int64) ([]models.JobSkillView, error) {
	links, err := findAll[models.JobSkill](ctx, s.jobSkills, bson.M{"job_id": jobID},
		options.Find().SetSort(bson.D{{Key: "frequency", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []models.JobSkillView{}
	if len(links) == 0 {
		return out, nil
	}

	ids := make([]int64, len(links))
	for i, l := range links {
		ids[i] = l.SkillID
	}
	skills, err := findAll[models.Skill](ctx, s.skills, bson.M{"id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Skill, len(skills))
	for _, sk := range skills {
		byID[sk.ID] = sk
	}
	for _, l := range links {
		if sk, ok := byID[l.SkillID]; ok {
			out = append(out, models.JobSkillView{Skill: sk, Frequency: l.Frequency})
		}
	}
	return out, nil
}

func (s *MongoStore) SalaryByState(ctx context.Context, state string) ([]models.SalaryRecord, error) {
	filter := bson.M{"state": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(state) + "$", Options: "i"}}
	return findAll[models.SalaryRecord](ctx, s.salaries, filter,
		options.Find().SetSort(bson.D{{Key: "average_salary", Value: -1}}))
}

func (s *MongoStore) SalaryByJob(ctx context.Context, jobID int64) ([]models.SalaryRecord, error) {
	return findAll[models.SalaryRecord](ctx, s.salaries, bson.M{"job_id": jobID},
		options.Find().SetSort(bson.D{{Key: "state", Value: 1}, {Key: "year", Value: 1}}))
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
