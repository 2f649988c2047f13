package courierrepo_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/courierrepo"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GormCourierRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *courierrepo.GormCourierRepository
}

func (suite *GormCourierRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&courierrepo.CourierDTO{})
	suite.Require().NoError(err)

	suite.repo = courierrepo.NewGormCourierRepository(db)
}

func (suite *GormCourierRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GormCourierRepositoryTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE couriers CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GormCourierRepositoryTestSuite) newProfile() *courier.Profile {
	profile, err := courier.NewProfile(kernel.NewUUID())
	suite.Require().NoError(err)
	return profile
}

func (suite *GormCourierRepositoryTestSuite) TestAddAndGet_RoundTripsProfile() {
	ctx := context.Background()
	profile := suite.newProfile()

	suite.Require().NoError(suite.repo.Add(ctx, profile))

	loaded, err := suite.repo.Get(ctx, profile.UserID())
	suite.Require().NoError(err)
	suite.True(loaded.UserID().IsEqual(profile.UserID()))
	suite.True(loaded.IsAvailable())
	suite.Nil(loaded.CurrentLocation())
}

func (suite *GormCourierRepositoryTestSuite) TestGet_UnknownID_ReturnsObjectNotFound() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GormCourierRepositoryTestSuite) TestMarkBusy_SecondFlipConflicts() {
	ctx := context.Background()
	profile := suite.newProfile()
	suite.Require().NoError(suite.repo.Add(ctx, profile))

	suite.Require().NoError(suite.repo.MarkBusy(ctx, profile.UserID()))

	err := suite.repo.MarkBusy(ctx, profile.UserID())
	suite.Require().ErrorIs(err, errs.ErrConflict)

	loaded, err := suite.repo.Get(ctx, profile.UserID())
	suite.Require().NoError(err)
	suite.False(loaded.IsAvailable())
}

func (suite *GormCourierRepositoryTestSuite) TestMarkAvailable_RestoresAvailability() {
	ctx := context.Background()
	profile := suite.newProfile()
	suite.Require().NoError(suite.repo.Add(ctx, profile))

	suite.Require().NoError(suite.repo.MarkBusy(ctx, profile.UserID()))
	suite.Require().NoError(suite.repo.MarkAvailable(ctx, profile.UserID()))

	// Already available again, so the guarded flip finds no row.
	err := suite.repo.MarkAvailable(ctx, profile.UserID())
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *GormCourierRepositoryTestSuite) TestGetAllAvailable_FiltersBusyCouriers() {
	ctx := context.Background()
	available := suite.newProfile()
	busy := suite.newProfile()
	suite.Require().NoError(suite.repo.Add(ctx, available))
	suite.Require().NoError(suite.repo.Add(ctx, busy))
	suite.Require().NoError(suite.repo.MarkBusy(ctx, busy.UserID()))

	profiles, err := suite.repo.GetAllAvailable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(profiles, 1)
	suite.True(profiles[0].UserID().IsEqual(available.UserID()))

	all, err := suite.repo.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

func (suite *GormCourierRepositoryTestSuite) TestUpdateLocation_PersistsPosition() {
	ctx := context.Background()
	profile := suite.newProfile()
	suite.Require().NoError(suite.repo.Add(ctx, profile))

	location, err := kernel.NewGeoPoint(48.8566, 2.3522, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.UpdateLocation(ctx, profile.UserID(), location))

	loaded, err := suite.repo.Get(ctx, profile.UserID())
	suite.Require().NoError(err)
	suite.Require().NotNil(loaded.CurrentLocation())
	suite.True(loaded.CurrentLocation().IsEqual(location))
}

func (suite *GormCourierRepositoryTestSuite) TestUpdateLocation_UnknownCourier_ReturnsObjectNotFound() {
	location, err := kernel.NewGeoPoint(48.8566, 2.3522, time.Now())
	suite.Require().NoError(err)

	err = suite.repo.UpdateLocation(context.Background(), kernel.NewUUID(), location)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestGormCourierRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormCourierRepositoryTestSuite))
}
