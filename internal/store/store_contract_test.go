package store

import (
	"context"
	"strings"

	perrors "github.com/abgdnv/productcrud/internal/errors"
	"github.com/stretchr/testify/suite"
)

const skipIntegrationTests = "PRODUCT_SKIP_INTEGRATION_TESTS"

// storeContractSuite holds the behaviour every database-backed ProductStore must share.
// Backend suites embed it and set store and missingID in SetupSuite.
type storeContractSuite struct {
	suite.Suite
	ctx       context.Context
	store     ProductStore
	missingID string // well-formed id that is never assigned
	badID     string // id the backend cannot cast
}

func (s *storeContractSuite) TestCreateAndFindByID() {
	// when
	created, err := s.store.Create(s.ctx, "Laptop", "Gaming laptop")

	// then
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	found, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created, found)
}

func (s *storeContractSuite) TestFindAll() {
	// given
	empty, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	first, err := s.store.Create(s.ctx, "A", "a")
	s.Require().NoError(err)
	second, err := s.store.Create(s.ctx, "B", "b")
	s.Require().NoError(err)

	// when
	products, err := s.store.FindAll(s.ctx)

	// then
	s.Require().NoError(err)
	s.Equal([]Product{*first, *second}, products)
}

func (s *storeContractSuite) TestUpdate() {
	// given
	created, err := s.store.Create(s.ctx, "Old", "Old desc")
	s.Require().NoError(err)
	name := "New"

	// when
	updated, err := s.store.Update(s.ctx, created.ID, ProductUpdate{Name: &name})

	// then
	s.Require().NoError(err)
	s.Equal(Product{ID: created.ID, Name: "New", Description: "Old desc"}, *updated)

	unchanged, err := s.store.Update(s.ctx, created.ID, ProductUpdate{})
	s.Require().NoError(err)
	s.Equal(updated, unchanged)
}

func (s *storeContractSuite) TestDeleteByID() {
	// given
	created, err := s.store.Create(s.ctx, "Gone", "removed")
	s.Require().NoError(err)

	// when
	deleted, err := s.store.DeleteByID(s.ctx, created.ID)

	// then
	s.Require().NoError(err)
	s.Equal(created, deleted)
	_, err = s.store.FindByID(s.ctx, created.ID)
	s.ErrorIs(err, perrors.ErrProductNotFound)
}

func (s *storeContractSuite) TestIDIsCaseInsensitive() {
	// given
	created, err := s.store.Create(s.ctx, "Laptop", "Gaming laptop")
	s.Require().NoError(err)
	upper := strings.ToUpper(created.ID)

	// when
	found, err := s.store.FindByID(s.ctx, upper)

	// then
	s.Require().NoError(err)
	s.Equal(created, found)
}

func (s *storeContractSuite) TestNotFound() {
	_, err := s.store.FindByID(s.ctx, s.missingID)
	s.ErrorIs(err, perrors.ErrProductNotFound)

	name := "x"
	_, err = s.store.Update(s.ctx, s.missingID, ProductUpdate{Name: &name})
	s.ErrorIs(err, perrors.ErrProductNotFound)

	_, err = s.store.DeleteByID(s.ctx, s.missingID)
	s.ErrorIs(err, perrors.ErrProductNotFound)
}

func (s *storeContractSuite) TestMalformedID() {
	var castErr *perrors.CastError

	_, err := s.store.FindByID(s.ctx, s.badID)
	s.ErrorAs(err, &castErr)
	s.Equal(s.badID, castErr.Value)

	_, err = s.store.DeleteByID(s.ctx, s.badID)
	s.ErrorAs(err, &castErr)
}

func (s *storeContractSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
