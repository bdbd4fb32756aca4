// Package repository_test exercises the gorm repositories against a real
// PostgreSQL instance. The suite provisions a throwaway database per test via
// the testing package and skips when no server is reachable.
package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/repository"
	"github.com/pulsecrm/pulse/segment"
	testingutil "github.com/pulsecrm/pulse/testing"
	"github.com/pulsecrm/pulse/utils"
)

func withTestDB(t *testing.T, fn func(t *testing.T, testDB *testingutil.TestDB)) {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	})

	fn(t, testDB)
}

func TestCustomerRepositorySegmentQueries(t *testing.T) {
	withTestDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		repo := repository.NewCustomerRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		alice, err := fixtures.CreateTestCustomer("Alice", 12000, 2, 10)
		require.NoError(t, err)
		bob, err := fixtures.CreateTestCustomer("Bob", 3000, 5, 60)
		require.NoError(t, err)

		t.Run("ByEmail", func(t *testing.T) {
			found, err := repo.ByEmail(ctx, alice.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, alice.ID, found.ID)

			missing, err := repo.ByEmail(ctx, "nobody@example.com")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ByAudienceSpend", func(t *testing.T) {
			predicate := segment.Compile(models.AudienceFilter{
				Rules: []models.SegmentRule{
					{Field: models.SegmentFieldSpend, Operator: models.SegmentOperatorGT, Value: 10000},
				},
				Condition: models.CombinatorAnd,
			}, utils.UTCNow())

			matched, err := repo.ByAudience(ctx, predicate)
			require.NoError(t, err)
			require.Len(t, matched, 1)
			assert.Equal(t, "Alice", matched[0].Name)
		})

		t.Run("ByAudienceInactiveDays", func(t *testing.T) {
			predicate := segment.Compile(models.AudienceFilter{
				Rules: []models.SegmentRule{
					{Field: models.SegmentFieldInactiveDays, Operator: models.SegmentOperatorGT, Value: 30},
				},
				Condition: models.CombinatorAnd,
			}, utils.UTCNow())

			matched, err := repo.ByAudience(ctx, predicate)
			require.NoError(t, err)
			require.Len(t, matched, 1)
			assert.Equal(t, "Bob", matched[0].Name)
		})

		t.Run("ByAudienceUniversal", func(t *testing.T) {
			predicate := segment.Compile(models.AudienceFilter{Condition: models.CombinatorOr}, utils.UTCNow())

			matched, err := repo.ByAudience(ctx, predicate)
			require.NoError(t, err)
			assert.Len(t, matched, 2)
		})

		t.Run("TopBySpend", func(t *testing.T) {
			top, err := repo.TopBySpend(ctx, 1)
			require.NoError(t, err)
			require.Len(t, top, 1)
			assert.Equal(t, "Alice", top[0].Name)
		})

		t.Run("RecordOrderActivity", func(t *testing.T) {
			at := utils.UTCNow()
			require.NoError(t, repo.RecordOrderActivity(ctx, bob.ID, 500, at))

			reloaded, err := repo.ByID(ctx, bob.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.InDelta(t, 3500, reloaded.Spend, 0.001)
			assert.Equal(t, 6, reloaded.Visits)
			assert.WithinDuration(t, at, reloaded.LastActive, time.Second)
		})

		t.Run("RecordOrderActivityUnknownCustomer", func(t *testing.T) {
			err := repo.RecordOrderActivity(ctx, 99999, 10, utils.UTCNow())
			require.Error(t, err)
		})
	})
}

func TestCommunicationLogRepositoryReceipts(t *testing.T) {
	withTestDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		repo := repository.NewCommunicationLogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		customer, err := fixtures.CreateTestCustomer("Mohsen", 1000, 1, 5)
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign("Winback", models.AudienceFilter{Condition: models.CombinatorAnd}, "10% off")
		require.NoError(t, err)

		entry, err := fixtures.CreateTestLog(campaign.ID, customer.ID, models.DeliveryStatusPending)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.UUID)

		t.Run("ByUUID", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, entry.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, entry.ID, found.ID)
			assert.Equal(t, models.DeliveryStatusPending, found.Status)

			missing, err := repo.ByUUID(ctx, uuid.NewString())
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ApplyReceiptFlipsPendingOnce", func(t *testing.T) {
			applied, err := repo.ApplyReceipt(ctx, entry.ID, models.DeliveryStatusSent, "MockVendorResponse")
			require.NoError(t, err)
			assert.True(t, applied)

			reloaded, err := repo.ByID(ctx, entry.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.Equal(t, models.DeliveryStatusSent, reloaded.Status)
			require.NotNil(t, reloaded.VendorResponse)
			assert.Equal(t, "MockVendorResponse", *reloaded.VendorResponse)
		})

		t.Run("ApplyReceiptLosesAgainstTerminalRow", func(t *testing.T) {
			applied, err := repo.ApplyReceipt(ctx, entry.ID, models.DeliveryStatusFailed, "late")
			require.NoError(t, err)
			assert.False(t, applied)

			reloaded, err := repo.ByID(ctx, entry.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.Equal(t, models.DeliveryStatusSent, reloaded.Status)
			require.NotNil(t, reloaded.VendorResponse)
			assert.Equal(t, "MockVendorResponse", *reloaded.VendorResponse)
		})

		t.Run("ApplyReceiptRejectsNonTerminal", func(t *testing.T) {
			_, err := repo.ApplyReceipt(ctx, entry.ID, models.DeliveryStatusPending, "nope")
			require.Error(t, err)
		})

		t.Run("DefaultStatusIsPending", func(t *testing.T) {
			fresh := &models.CommunicationLog{
				CampaignID:      campaign.ID,
				CustomerID:      customer.ID,
				RenderedMessage: "Hi Mohsen, welcome back",
			}
			require.NoError(t, testDB.DB.Create(fresh).Error)

			reloaded, err := repo.ByID(ctx, fresh.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.Equal(t, models.DeliveryStatusPending, reloaded.Status)
		})
	})
}

func TestCommunicationLogRepositoryCountByStatus(t *testing.T) {
	withTestDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		repo := repository.NewCommunicationLogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		customer, err := fixtures.CreateTestCustomer("Sara", 2000, 3, 1)
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign("Spring", models.AudienceFilter{Condition: models.CombinatorAnd}, "Hello")
		require.NoError(t, err)
		other, err := fixtures.CreateTestCampaign("Other", models.AudienceFilter{Condition: models.CombinatorAnd}, "Hi")
		require.NoError(t, err)

		for _, status := range []models.DeliveryStatus{
			models.DeliveryStatusSent,
			models.DeliveryStatusSent,
			models.DeliveryStatusFailed,
			models.DeliveryStatusPending,
		} {
			_, err := fixtures.CreateTestLog(campaign.ID, customer.ID, status)
			require.NoError(t, err)
		}
		_, err = fixtures.CreateTestLog(other.ID, customer.ID, models.DeliveryStatusSent)
		require.NoError(t, err)

		counts, err := repo.CountByStatus(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[models.DeliveryStatusSent])
		assert.Equal(t, int64(1), counts[models.DeliveryStatusFailed])
		assert.Equal(t, int64(1), counts[models.DeliveryStatusPending])
		assert.Len(t, counts, 3)
	})
}

func TestCampaignRepositoryRoundTrip(t *testing.T) {
	withTestDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		repo := repository.NewCampaignRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		filter := models.AudienceFilter{
			Rules: []models.SegmentRule{
				{Field: models.SegmentFieldSpend, Operator: models.SegmentOperatorGT, Value: 10000},
			},
			Condition: models.CombinatorAnd,
		}
		campaign, err := fixtures.CreateTestCampaign("Diwali", filter, "20% off everything")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, campaign.UUID)

		found, err := repo.ByUUID(ctx, campaign.UUID.String())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Diwali", found.Name)
		assert.Equal(t, filter.Condition, found.AudienceFilter.Condition)
		require.Len(t, found.AudienceFilter.Rules, 1)
		assert.Equal(t, models.SegmentFieldSpend, found.AudienceFilter.Rules[0].Field)

		listed, err := repo.ListNewest(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, campaign.ID, listed[0].ID)
	})
}

func TestOrderRepositoryTotals(t *testing.T) {
	withTestDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		repo := repository.NewOrderRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		customer, err := fixtures.CreateTestCustomer("Mohsen", 1000, 1, 5)
		require.NoError(t, err)

		now := utils.UTCNow()
		older := &models.Order{CustomerID: customer.ID, Amount: 100, Date: now.Add(-time.Hour)}
		require.NoError(t, testDB.DB.Create(older).Error)
		newer := &models.Order{CustomerID: customer.ID, Amount: 200, Date: now}
		require.NoError(t, testDB.DB.Create(newer).Error)

		orders, err := repo.ListNewestWithCustomer(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.InDelta(t, 200, orders[0].Amount, 0.001)
		require.NotNil(t, orders[0].Customer)
		assert.Equal(t, "Mohsen", orders[0].Customer.Name)

		count, revenue, err := repo.Totals(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.InDelta(t, 300, revenue, 0.001)
	})
}
