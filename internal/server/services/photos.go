package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	sc "github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const photoUploadExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	newObjectID = uuid.NewString
)

// PhotoUpload tells the client where to PUT the image and what the user's
// photo URL now is.
type PhotoUpload struct {
	UploadURL string    `json:"upload_url"`
	Photo     string    `json:"photo"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PhotoService hands out presigned S3 uploads for profile photos.
type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	log         logging.Logger
}

func NewPhotoService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, log logging.Logger) *PhotoService {
	return &PhotoService{db: db, repomanager: m, config: cfg, log: log.With("service", "photos")}
}

// PhotoKey is the object key of a new photo for userID.
func PhotoKey(userID int64) string {
	return fmt.Sprintf("users/%d/photos/%s", userID, newObjectID())
}

func (s *PhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// objectURL is the path-style URL of key in the configured bucket.
func (s *PhotoService) objectURL(key string) string {
	return strings.TrimRight(s.config.S3BaseEndpoint, "/") + "/" + s.config.S3Bucket + "/" + key
}

// RequestUpload presigns a PUT for a fresh photo key and records the
// resulting object URL as the user's photo. The URL is stored once signing
// succeeds, before the client uploads anything, so until the PUT completes
// the profile points at an object that does not exist yet. There is no
// confirmation step; a client that never uploads leaves that dangling URL in
// place until the next request replaces it.
func (s *PhotoService) RequestUpload(ctx context.Context, userID int64) (*PhotoUpload, error) {
	repo := s.repomanager.Users(s.db)

	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, classify(ctx, s.log, "get user", wrapNotFound(err, "user %d", userID))
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, classify(ctx, s.log, "s3 client", err)
	}

	bucket := s.config.S3Bucket
	key := PhotoKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(photoUploadExpiry))
	if err != nil {
		return nil, classify(ctx, s.log, "presign photo upload", err)
	}

	u.Photo = s.objectURL(key)
	if _, err := repo.Update(ctx, u); err != nil {
		return nil, classify(ctx, s.log, "store photo url", wrapNotFound(err, "user %d", userID))
	}

	s.log.Info(ctx, "photo upload presigned", "user_id", userID, "key", key)
	return &PhotoUpload{
		UploadURL: req.URL,
		Photo:     u.Photo,
		ExpiresAt: time.Now().Add(photoUploadExpiry),
	}, nil
}
