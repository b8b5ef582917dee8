package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAllAvailable(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100),
		testVariation("v1", "p1", "rouge", "M", 5, 0),
		testVariation("v2", "p1", "bleu", "L", 2, 0),
	)
	checker := NewAvailabilityChecker(catalog)

	report, err := checker.Check(context.Background(), []ReconciledLine{
		{ProductID: "p1", VariationID: "v1", Color: "rouge", Size: "M", RequestedQuantity: 3},
		{ProductID: "p1", VariationID: "v2", Color: "bleu", Size: "L", RequestedQuantity: 2},
	})
	require.NoError(t, err)
	assert.True(t, report.AllAvailable)
	require.Len(t, report.Verdicts, 2)
	assert.True(t, report.Verdicts[0].Available)
	assert.True(t, report.Verdicts[1].Available)
}

func TestCheckShortfall(t *testing.T) {
	// 3 demandés, 2 en stock → refus avec le détail exact
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100), testVariation("v1", "p1", "rouge", "M", 2, 0))
	checker := NewAvailabilityChecker(catalog)

	report, err := checker.Check(context.Background(), []ReconciledLine{
		{ProductID: "p1", VariationID: "v1", Color: "rouge", Size: "M", RequestedQuantity: 3},
	})
	require.NoError(t, err)
	assert.False(t, report.AllAvailable)
	require.Len(t, report.Verdicts, 1)

	v := report.Verdicts[0]
	assert.Equal(t, 3, v.Requested)
	assert.Equal(t, 2, v.CurrentStock)
	assert.False(t, v.Available)
	assert.Equal(t, "rouge M : plus que 2 en stock", v.Message)
}

func TestCheckUnverifiedLineStaysUnavailableOnReadFailure(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.failStock["vX"] = true
	checker := NewAvailabilityChecker(catalog)

	report, err := checker.Check(context.Background(), []ReconciledLine{
		{ProductID: "p2", VariationID: "vX", RequestedQuantity: 1, Unverified: true},
	})
	require.NoError(t, err)
	assert.False(t, report.AllAvailable)
	assert.False(t, report.Verdicts[0].Available)
}

func TestCheckUnverifiedLineRecoversOnFreshRead(t *testing.T) {
	// Une lecture fraîche qui réussit suffit à réhabiliter la ligne
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100), testVariation("v1", "p1", "rouge", "M", 4, 0))
	checker := NewAvailabilityChecker(catalog)

	report, err := checker.Check(context.Background(), []ReconciledLine{
		{ProductID: "p1", VariationID: "v1", Color: "rouge", Size: "M", RequestedQuantity: 2, Unverified: true},
	})
	require.NoError(t, err)
	assert.True(t, report.AllAvailable)
	assert.Equal(t, 4, report.Verdicts[0].CurrentStock)
}

func TestCheckAbortsOnStoreFailureForVerifiedLine(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100), testVariation("v1", "p1", "rouge", "M", 4, 0))
	catalog.failStock["v1"] = true
	checker := NewAvailabilityChecker(catalog)

	_, err := checker.Check(context.Background(), []ReconciledLine{
		{ProductID: "p1", VariationID: "v1", RequestedQuantity: 1},
	})
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
}

func TestCheckUnresolvedLineIsRejected(t *testing.T) {
	checker := NewAvailabilityChecker(newFakeCatalog())

	report, err := checker.Check(context.Background(), []ReconciledLine{
		{ProductID: "p1", RequestedQuantity: 1},
	})
	require.NoError(t, err)
	assert.False(t, report.AllAvailable)
	assert.False(t, report.Verdicts[0].Available)
}
