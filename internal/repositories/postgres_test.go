package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

type postgresSuite struct {
	suite.Suite

	container *postgres.PostgresContainer
	db        *gorm.DB
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container tests in short mode")
	}
	suite.Run(t, new(postgresSuite))
}

func (s *postgresSuite) SetupSuite() {
	ctx := s.T().Context()

	container, connStr, err := startPostgres(ctx)
	s.Require().NoError(err)
	s.container = container

	s.db, err = gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.db.AutoMigrate(&models.Product{}, &repositories.StorageSlot{}))
}

func (s *postgresSuite) TearDownSuite() {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *postgresSuite) TestProductRepository() {
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(s.db)
	s.Require().NoError(repositories.SeedProducts(ctx, repo, repositories.DefaultProducts()))

	p, err := repo.GetByID(ctx, 5)
	s.Require().NoError(err)
	s.Equal("Premium Coffee Maker", p.Name)
	s.Equal("159.99", p.Price.StringFixed(2))

	got, err := repo.Search(ctx, "Bottle")
	s.Require().NoError(err)
	s.Equal([]int64{8}, ids(got))
}

func (s *postgresSuite) TestSlotStore() {
	ctx := context.Background()
	store := repositories.NewGORMSlotStore(s.db, "cart")

	_, err := store.Load(ctx)
	s.ErrorIs(err, repositories.ErrSlotEmpty)

	s.Require().NoError(store.Save(ctx, []byte("first")))
	s.Require().NoError(store.Save(ctx, []byte("second")))

	got, err := store.Load(ctx)
	s.Require().NoError(err)
	s.Equal("second", string(got))
}
