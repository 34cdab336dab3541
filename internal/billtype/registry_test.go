package billtype

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmcnair22/billscan/internal/model"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	r, err := Open(filepath.Join(t.TempDir(), "accounts.db"), l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestCleanAccountNumber(t *testing.T) {
	assert.Equal(t, "987654321", CleanAccountNumber("987-654-321"))
	assert.Equal(t, "AB12345", CleanAccountNumber(" AB 123.45 "))
	assert.Equal(t, "", CleanAccountNumber("---"))
}

func TestAccountNumberFromDocument(t *testing.T) {
	doc := &model.Document{Fields: map[string]string{"CustomerId": "987654321"}}
	assert.Equal(t, "987654321", AccountNumberFromDocument(doc))

	doc = &model.Document{Fields: map[string]string{"InvoiceId": "INV-42"}}
	assert.Equal(t, "INV-42", AccountNumberFromDocument(doc))

	doc = &model.Document{
		Fields:  map[string]string{},
		Content: "Acme Utilities\nAccount Number: 123 456 789\nTotal Due $50.00",
	}
	assert.Equal(t, "123 456 789", AccountNumberFromDocument(doc))

	doc = &model.Document{Fields: map[string]string{}, Content: "no identifiers here"}
	assert.Empty(t, AccountNumberFromDocument(doc))
}

func TestDetermineRoutes(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, "111222333", true))
	require.NoError(t, r.Add(ctx, "444555666", false))

	route, err := r.Determine(ctx, &model.Document{Fields: map[string]string{"CustomerId": "111-222-333"}})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOK, route.Status)
	assert.Equal(t, model.BillTypeMLB, route.Type)

	route, err = r.Determine(ctx, &model.Document{Fields: map[string]string{"CustomerId": "444555666"}})
	require.NoError(t, err)
	assert.Equal(t, model.BillTypeSLB, route.Type)
}

func TestDetermineUnknownAccountIsAudit(t *testing.T) {
	r := testRegistry(t)

	route, err := r.Determine(context.Background(), &model.Document{Fields: map[string]string{"CustomerId": "999999999"}})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAudit, route.Status)
	assert.Empty(t, route.Type)
}

func TestDetermineMissingAccountIsAudit(t *testing.T) {
	r := testRegistry(t)

	route, err := r.Determine(context.Background(), &model.Document{Fields: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAudit, route.Status)
}

func TestAddUpdatesExisting(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, "111222333", false))
	require.NoError(t, r.Add(ctx, "111222333", true))

	route, err := r.Determine(ctx, &model.Document{Fields: map[string]string{"CustomerId": "111222333"}})
	require.NoError(t, err)
	assert.Equal(t, model.BillTypeMLB, route.Type)
}
