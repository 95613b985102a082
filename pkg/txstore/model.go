package txstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/kitswap/dex-middleware/pkg/tx"
)

// TransactionDao is the persisted shape of a transaction record. The
// hash is the natural key; a record is written once as pending and
// later upserted with its terminal status.
type TransactionDao struct {
	bun.BaseModel `bun:"table:transactions,alias:tr"`

	Hash         string    `bun:"hash,pk,type:varchar(66)"`
	FromAddress  string    `bun:"from_address,type:varchar(42),notnull"`
	ToAddress    string    `bun:"to_address,type:varchar(42),notnull"`
	FunctionName string    `bun:"function_name,notnull"`
	Args         string    `bun:"args,type:text,notnull"`
	Value        string    `bun:"value,type:varchar(78),notnull"`
	Status       string    `bun:"status,type:varchar(10),notnull"`
	Timestamp    time.Time `bun:"timestamp,notnull"`
	TxType       string    `bun:"tx_type,type:varchar(20),notnull"`
	Amount       *string   `bun:"amount"`
	Token        *string   `bun:"token"`
	ToToken      *string   `bun:"to_token"`
}

func toTransactionDao(rec *tx.Record) *TransactionDao {
	dao := &TransactionDao{
		Hash:         rec.Hash,
		FromAddress:  rec.From,
		ToAddress:    rec.To,
		FunctionName: rec.Operation,
		Args:         rec.Args,
		Value:        rec.Value,
		Status:       string(rec.Status),
		Timestamp:    rec.Timestamp,
		TxType:       string(rec.Kind),
	}
	if rec.Amount != "" {
		dao.Amount = &rec.Amount
	}
	if rec.Token != "" {
		dao.Token = &rec.Token
	}
	if rec.ToToken != "" {
		dao.ToToken = &rec.ToToken
	}
	return dao
}

func toRecord(dao *TransactionDao) *tx.Record {
	rec := &tx.Record{
		Hash:      dao.Hash,
		From:      dao.FromAddress,
		To:        dao.ToAddress,
		Operation: dao.FunctionName,
		Args:      dao.Args,
		Value:     dao.Value,
		Status:    tx.Status(dao.Status),
		Timestamp: dao.Timestamp,
		Kind:      tx.Kind(dao.TxType),
	}
	if dao.Amount != nil {
		rec.Amount = *dao.Amount
	}
	if dao.Token != nil {
		rec.Token = *dao.Token
	}
	if dao.ToToken != nil {
		rec.ToToken = *dao.ToToken
	}
	return rec
}
