// Package testutil provides mocks, fixtures and database helpers shared by
// the package tests.
//
// Mocks are built on testify's mock.Mock, so expectations are set with
// On(...).Return(...) and verified with AssertExpectations. Each mock also
// records its calls so concurrent tests can count them without setting
// expectations up front.
package testutil
