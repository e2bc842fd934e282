package dataservice

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/archive"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/config"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/storage/s3client"
)

// Factory opens one Service per unit of work with shared settings.
type Factory struct {
	cfg   *config.Config
	log   logging.Logger
	rm    repomanager.RepositoryManager
	store archive.ObjectStore

	open func(ctx context.Context, driver, dsn string) (*dbx.Conn, error)
}

// NewFactory returns a Factory for PostgreSQL. store may be nil.
func NewFactory(cfg *config.Config, log logging.Logger, store archive.ObjectStore) *Factory {
	if log == nil {
		log = logging.Discard()
	}
	return &Factory{
		cfg:   cfg,
		log:   log,
		rm:    repomanager.NewPostgresRepositoryManager(),
		store: store,
		open:  dbx.Open,
	}
}

func (f *Factory) connect(ctx context.Context) (*dbx.Conn, error) {
	dsn, err := f.cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConnection, err)
	}
	conn, err := f.open(ctx, common.DriverName, dsn)
	if err != nil {
		f.log.Error(ctx, "database connection failed", "error", err)
		return nil, err
	}
	return conn, nil
}

// Open starts a unit of work. Errors wrap common.ErrConnection.
func (f *Factory) Open(ctx context.Context) (*Service, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	s, err := New(conn, f.rm, Options{Config: f.cfg, Logger: f.log, Store: f.store})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the embedded schema migrations on a dedicated connection.
func (f *Factory) Migrate(ctx context.Context) error {
	conn, err := f.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.log.Info(ctx, "applying migrations")
	if err := f.rm.RunMigrations(ctx, conn.DB()); err != nil {
		f.log.Error(ctx, "migrations failed", "error", err)
		return fmt.Errorf("error running migrations: %w", err)
	}
	return nil
}

// Open is a shortcut for NewFactory(cfg, log, nil).Open(ctx).
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*Service, error) {
	return NewFactory(cfg, log, nil).Open(ctx)
}

// NewArchiveStore connects to the configured bucket, or returns nil when
// no bucket is configured.
func NewArchiveStore(ctx context.Context, cfg *config.Config) (archive.ObjectStore, error) {
	if !cfg.ArchiveEnabled() {
		return nil, nil
	}
	c, err := s3client.New(ctx, s3client.Config{
		Endpoint:        cfg.S3BaseEndpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		BucketName:      cfg.S3Bucket,
		UsePathStyle:    cfg.S3UsePathStyle,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
