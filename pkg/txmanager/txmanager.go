package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	// maxAttempts максимальное число попыток выполнения сериализуемой транзакции
	maxAttempts = 3

	// Коды ошибок PostgreSQL, после которых транзакцию можно безопасно повторить
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

var (
	// ErrBeginTx возвращается при ошибке открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrRetriesExhausted возвращается, когда все попытки выполнить
	// транзакцию завершились конфликтом сериализации
	ErrRetriesExhausted = errors.New("txmanager: serialization retries exhausted")
)

// TransactionManager выполняет функции в сериализуемых транзакциях PostgreSQL
// с ограниченным числом повторов при конфликтах сериализации
type TransactionManager struct {
	beginner TxBeginner
	onRetry  func()
}

// OnRetry регистрирует callback, вызываемый перед каждым повтором
// транзакции (например, для инкремента метрики)
func (m *TransactionManager) OnRetry(fn func()) {
	m.onRetry = fn
}

// sqlBeginner адаптирует *sql.DB к интерфейсу TxBeginner
type sqlBeginner struct {
	db *sql.DB
}

func (b sqlBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return b.db.BeginTx(ctx, opts)
}

// NewTransactionManager создает менеджер транзакций поверх *sql.DB
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{beginner: sqlBeginner{db: db}}
}

// NewTransactionManagerWithBeginner создает менеджер транзакций поверх
// произвольного TxBeginner (используется в тестах)
func NewTransactionManagerWithBeginner(beginner TxBeginner) *TransactionManager {
	return &TransactionManager{beginner: beginner}
}

// DoSerializable выполняет fn в транзакции с уровнем изоляции SERIALIZABLE.
// Транзакция передается через контекст: репозитории получают её через GetExecutor.
// При конфликте сериализации (40001) или deadlock (40P01) транзакция
// повторяется целиком, не более maxAttempts раз.
// Бизнес-ошибки из fn не повторяются и возвращаются как есть
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if !IsSerializationFailure(err) {
			return err
		}

		lastErr = err

		// Перед повтором проверяем, что контекст ещё жив
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrRetriesExhausted, ctx.Err())
		}

		if m.onRetry != nil && attempt < maxAttempts {
			m.onRetry()
		}
	}

	return fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

// runOnce выполняет одну попытку: begin -> fn -> commit/rollback
func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.beginner.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		if IsSerializationFailure(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}

// IsSerializationFailure возвращает true, если ошибка вызвана конфликтом
// сериализации или deadlock'ом и транзакцию имеет смысл повторить.
// Учитывает ErrRetriesExhausted, чтобы вызывающая сторона могла отличить
// проигранную гонку от прочих ошибок
func IsSerializationFailure(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrRetriesExhausted) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
	}

	return false
}
