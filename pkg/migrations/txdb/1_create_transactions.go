package txdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/kitswap/dex-middleware/pkg/pgutil/migrations"
	"github.com/kitswap/dex-middleware/pkg/txstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating transactions table...")
		if err := mghelper.CreateSchema(ctx, db, &txstore.TransactionDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &txstore.TransactionDao{}, "from_address", "status", "timestamp")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping transactions table...")
		return mghelper.DropTables(ctx, db, &txstore.TransactionDao{})
	})
}
