package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/stockledger/internal/adapter/repository/postgres"
	"github.com/iho/stockledger/internal/usecase"
	"github.com/iho/stockledger/tests/testutil"
)

// testEnv wires real repositories over the test database.
type testEnv struct {
	db          *testutil.TestDB
	inventoryUC *usecase.InventoryUseCase
	orderUC     *usecase.OrderUseCase
	reportUC    *usecase.ReportUseCase
	outboxRepo  *postgres.OutboxRepository

	storeOne string
	storeTwo string
	product  string
	employee string
	customer string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	t.Cleanup(db.Cleanup)
	db.TruncateAll(ctx)

	pool := db.Pool
	txManager := postgres.NewTxManager(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	directoryRepo := postgres.NewDirectoryRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	inventoryUC := usecase.NewInventoryUseCase(txManager, inventoryRepo, movementRepo, catalogRepo, directoryRepo, idGen, nil).WithRetrier(retrier)
	orderUC := usecase.NewOrderUseCase(txManager, orderRepo, outboxRepo, inventoryUC, catalogRepo, directoryRepo, idGen, nil).WithRetrier(retrier)
	reportUC := usecase.NewReportUseCase(orderRepo, inventoryRepo)

	storeOne := db.CreateTestStore(ctx, "Downtown")
	storeTwo := db.CreateTestStore(ctx, "Uptown")
	product := db.CreateTestProduct(ctx, "Widget", "SKU-001")
	employee := db.CreateTestEmployee(ctx, storeOne, "Alex")
	customer := db.CreateTestCustomer(ctx, "Sam")
	db.CreateTestPrice(ctx, product, decimal.RequireFromString("9.99"))

	return &testEnv{
		db:          db,
		inventoryUC: inventoryUC,
		orderUC:     orderUC,
		reportUC:    reportUC,
		outboxRepo:  outboxRepo,
		storeOne:    storeOne,
		storeTwo:    storeTwo,
		product:     product,
		employee:    employee,
		customer:    customer,
	}
}
