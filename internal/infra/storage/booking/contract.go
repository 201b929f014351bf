package booking

import (
	"github.com/pilotnikovk/tg-bot-zapis/pkg/txmanager"
)

// Переиспользуем интерфейсы txmanager для работы с БД:
// репозиторий выполняет запросы либо на *sql.DB, либо на транзакции из контекста
type DBExecutor = txmanager.DBExecutor
