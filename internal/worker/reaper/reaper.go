// Package reaper は期限切れセッションの自動削除ジョブを提供する。
// 期限切れセッションは認証上は無効だが、レコードとしてはストレージに
// 残り続けるため、任意で有効化できるバッチジョブとして掃除する。
// このジョブの有無はIdentity Resolverの判定結果に影響しない。
package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/haven/internal/repository"
)

// ReaperJob は期限切れセッションの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type ReaperJob struct {
	sessions repository.SessionRepository
	logger   *slog.Logger

	// now は削除基準時刻を返す。テストで差し替える。
	now func() time.Time
}

// NewReaperJob は新しいReaperJobを生成する。
func NewReaperJob(sessions repository.SessionRepository, logger *slog.Logger) *ReaperJob {
	return &ReaperJob{
		sessions: sessions,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run は現在時刻より前に期限切れとなったセッションを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *ReaperJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.sessions.DeleteExpiredBefore(ctx, j.now())
	if err != nil {
		j.logger.Error("期限切れセッションの削除に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("期限切れセッションの削除に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("セッションリーパージョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// RunLoop は指定間隔でRunを繰り返し実行する。
// コンテキストがキャンセルされるまでブロックする。起動直後に1回実行する。
func (j *ReaperJob) RunLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		j.logger.Error("セッションリーパーの初回実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("セッションリーパーの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		case <-ctx.Done():
			j.logger.Info("セッションリーパーを停止します")
			return
		}
	}
}
