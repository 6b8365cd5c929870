package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	parquetwriter "github.com/xitongsys/parquet-go/writer"

	appconfig "cricketflow/config"
	"cricketflow/internal/metadata"
	"cricketflow/logger"
	"cricketflow/models"
)

// deliveryRow is the parquet schema for one archived delivery.
type deliveryRow struct {
	MatchID          string  `parquet:"name=match_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	DeliveryNo       string  `parquet:"name=delivery_no, type=BYTE_ARRAY, convertedtype=UTF8"`
	UniqueDeliveryNo float64 `parquet:"name=unique_delivery_no, type=DOUBLE"`
	Batter           string  `parquet:"name=batter, type=BYTE_ARRAY, convertedtype=UTF8"`
	Bowler           string  `parquet:"name=bowler, type=BYTE_ARRAY, convertedtype=UTF8"`
	Runs             int32   `parquet:"name=runs, type=INT32"`
	Boundary         string  `parquet:"name=boundary, type=BYTE_ARRAY, convertedtype=UTF8"`
	Extra            string  `parquet:"name=extra, type=BYTE_ARRAY, convertedtype=UTF8"`
	Wicket           bool    `parquet:"name=wicket, type=BOOLEAN"`
	Dismissal        string  `parquet:"name=dismissal, type=BYTE_ARRAY, convertedtype=UTF8"`
	FetchedAt        int64   `parquet:"name=fetched_at, type=INT64"`
}

// memoryFileWriter implements the ParquetFile interface for in-memory
// writing; the finished file is then written to disk or uploaded whole.
type memoryFileWriter struct {
	buffer *bytes.Buffer
}

func newMemoryFileWriter() *memoryFileWriter {
	return &memoryFileWriter{buffer: &bytes.Buffer{}}
}

func (mfw *memoryFileWriter) Create(name string) (source.ParquetFile, error) { return mfw, nil }
func (mfw *memoryFileWriter) Open(name string) (source.ParquetFile, error)   { return mfw, nil }

func (mfw *memoryFileWriter) Seek(offset int64, whence int) (int64, error) {
	return int64(mfw.buffer.Len()), nil
}

func (mfw *memoryFileWriter) Read(b []byte) (int, error)  { return mfw.buffer.Read(b) }
func (mfw *memoryFileWriter) Write(b []byte) (int, error) { return mfw.buffer.Write(b) }
func (mfw *memoryFileWriter) Close() error                { return nil }
func (mfw *memoryFileWriter) Bytes() []byte               { return mfw.buffer.Bytes() }

// ArchiveSink buffers normalized deliveries per match and periodically
// flushes them as parquet files to a local directory, with optional upload
// to S3. Every delivery notification lands here exactly once, so the archive
// is a replayable ball-by-ball record of each followed match.
type ArchiveSink struct {
	config   *appconfig.Config
	s3Client *s3.Client
	manifest *metadata.Generator
	mu       sync.Mutex
	buffer   map[string][]deliveryRow
	done     chan struct{}
	wg       sync.WaitGroup
	log      *logger.Log
}

func NewArchiveSink(cfg *appconfig.Config) (*ArchiveSink, error) {
	log := logger.GetLogger()

	if err := os.MkdirAll(cfg.Writer.Archive.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	s := &ArchiveSink{
		config:   cfg,
		manifest: metadata.NewGenerator(cfg.Writer.Archive.Directory, "deliveries"),
		buffer:   make(map[string][]deliveryRow),
		done:     make(chan struct{}),
		log:      log,
	}

	if cfg.Storage.S3.Enabled {
		client, err := newS3Client(cfg)
		if err != nil {
			return nil, err
		}
		s.s3Client = client
	}

	s.wg.Add(1)
	go s.flushWorker()

	log.WithComponent("archive_sink").WithFields(logger.Fields{
		"directory":      cfg.Writer.Archive.Directory,
		"flush_interval": cfg.Writer.Archive.FlushInterval,
		"s3_enabled":     cfg.Storage.S3.Enabled,
	}).Info("archive sink initialized")

	return s, nil
}

func newS3Client(cfg *appconfig.Config) (*s3.Client, error) {
	ctx := context.Background()

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.S3.Region),
	}
	if cfg.Storage.S3.AccessKeyID != "" && cfg.Storage.S3.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Storage.S3.AccessKeyID,
				cfg.Storage.S3.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.S3.Endpoint)
		}
		o.UsePathStyle = cfg.Storage.S3.PathStyle
	}), nil
}

func (s *ArchiveSink) Name() string { return "archive" }

func (s *ArchiveSink) Notify(_ context.Context, n models.Notification) error {
	if n.Ball == nil {
		return nil
	}

	ball := *n.Ball
	row := deliveryRow{
		MatchID:          n.Match.ID,
		DeliveryNo:       ball.DeliveryNo,
		UniqueDeliveryNo: ball.UniqueNo(),
		Batter:           ball.Batter,
		Bowler:           ball.Bowler,
		Runs:             int32(ball.Runs),
		Boundary:         ball.Boundary.Name(),
		Extra:            ball.Extra.Indicator(),
		Wicket:           ball.Dismissal != nil,
		FetchedAt:        n.Match.FetchedAt.UnixMilli(),
	}
	if ball.Dismissal != nil {
		row.Dismissal = ball.Dismissal.String()
	}

	s.mu.Lock()
	s.buffer[n.Match.ID] = append(s.buffer[n.Match.ID], row)
	s.mu.Unlock()
	return nil
}

func (s *ArchiveSink) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *ArchiveSink) flushWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Writer.Archive.FlushInterval)
	defer ticker.Stop()

	log := s.log.WithComponent("archive_sink").WithFields(logger.Fields{"worker": "flush"})
	log.Info("starting flush worker")

	for {
		select {
		case <-s.done:
			s.flushBuffers("shutdown")
			log.Info("flush worker stopped")
			return
		case <-ticker.C:
			s.flushBuffers("interval")
		}
	}
}

func (s *ArchiveSink) flushBuffers(reason string) {
	s.mu.Lock()
	buffers := s.buffer
	s.buffer = make(map[string][]deliveryRow)
	s.mu.Unlock()

	if len(buffers) == 0 {
		return
	}

	s.log.WithComponent("archive_sink").WithFields(logger.Fields{
		"flushed_matches": len(buffers),
		"reason":          reason,
	}).Info("flushing delivery buffers")

	for matchID, rows := range buffers {
		if len(rows) == 0 {
			continue
		}
		s.writeMatchFile(matchID, rows)
	}
}

func (s *ArchiveSink) writeMatchFile(matchID string, rows []deliveryRow) {
	now := time.Now().UTC()
	filename := fmt.Sprintf("match_%s_%s.parquet", matchID, now.Format("20060102150405"))

	log := s.log.WithComponent("archive_sink").WithFields(logger.Fields{
		"match_id":  matchID,
		"rows":      len(rows),
		"filename":  filename,
		"operation": "write_match_file",
	})

	data, err := s.createParquetFile(rows)
	if err != nil {
		log.WithError(err).Error("failed to create parquet file")
		return
	}

	path := filepath.Join(s.config.Writer.Archive.Directory, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.WithError(err).Error("failed to write parquet file")
		return
	}

	log.WithFields(logger.Fields{"file_size": len(data)}).Info("delivery archive written")

	if err := s.manifest.AddFile(metadata.DataFile{
		Path:        filename,
		FileSize:    int64(len(data)),
		RecordCount: int64(len(rows)),
		Partition: map[string]any{
			"match_id": matchID,
			"date":     now.Format("2006-01-02"),
		},
		Timestamp: now,
	}); err != nil {
		log.WithError(err).Warn("failed to update archive table metadata")
	}

	if s.s3Client != nil {
		key := fmt.Sprintf("match_id=%s/date=%s/%s", matchID, now.Format("2006-01-02"), filename)
		if err := s.uploadToS3(key, data); err != nil {
			log.WithError(err).
				WithEnv("S3_BUCKET").
				WithFields(logger.Fields{"bucket": s.config.Storage.S3.Bucket, "s3_key": key}).
				Error("failed to upload archive to S3")
		}
	}
}

func (s *ArchiveSink) createParquetFile(rows []deliveryRow) ([]byte, error) {
	fw := newMemoryFileWriter()

	pw, err := parquetwriter.NewParquetWriter(fw, new(deliveryRow), 2)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}

	switch s.config.Writer.Archive.Compression {
	case "snappy":
		pw.CompressionType = parquet.CompressionCodec_SNAPPY
	case "gzip":
		pw.CompressionType = parquet.CompressionCodec_GZIP
	default:
		pw.CompressionType = parquet.CompressionCodec_UNCOMPRESSED
	}

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return fw.Bytes(), nil
}

func (s *ArchiveSink) uploadToS3(key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Storage.S3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"content-type":        "parquet",
			"compression":         s.config.Writer.Archive.Compression,
			"cricketflow-version": s.config.Cricketflow.Version,
		},
	}

	_, err := s.s3Client.PutObject(context.Background(), input)
	if err != nil {
		return fmt.Errorf("failed to upload to S3 bucket %s: %w", s.config.Storage.S3.Bucket, err)
	}
	return nil
}
