// Package sweeper реализует уборку signup-сессий.
//
// Sweeper периодически переводит бездействующие ACTIVE-сессии в
// ABANDONED и удаляет давно завершённые.
//
// Структура:
//   - sweeper.go — основная логика Sweeper (Tick)
//   - cron.go    — парсинг cron-выражений расписания уборки
//
// Использование:
//
//	sw := sweeper.New(sweeper.Config{
//	    Sessions:   sessionRepo,
//	    SessionTTL: 72 * time.Hour,
//	    Logger:     logger,
//	})
//
//	if err := sw.Tick(ctx); err != nil {
//	    logger.Error("sweep failed", "error", err)
//	}
//
// Leader Election:
//
// Sweeper не реализует leader election самостоятельно.
// Это делается в main.go через pg_try_advisory_lock.
// Метод Tick() вызывается только лидером.
package sweeper
