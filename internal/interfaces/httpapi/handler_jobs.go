package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchside/fiveside/internal/usecase"
)

const scoringRetryDelay = 5 * time.Minute

type batchResultDTO struct {
	Gameweek int  `json:"gameweek"`
	Scored   int  `json:"scored"`
	Pending  int  `json:"pending"`
	Failed   int  `json:"failed"`
	Complete bool `json:"complete"`
}

type ingestReportDTO struct {
	Gameweek  int  `json:"gameweek"`
	Records   int  `json:"records"`
	Finalized bool `json:"finalized"`
}

// RunScoreGameweekJob scores every roster for the current locked round. When
// some rosters are still pending on feed finality, the job re-enqueues itself
// with a delay instead of failing.
func (h *Handler) RunScoreGameweekJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreGameweekJob")
	defer span.End()

	batch, err := h.scoringService.ScoreAllRosters(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "score gameweek job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	if batch.Pending > 0 && h.publisher != nil {
		dedupID := "score-gameweek-" + strconv.Itoa(batch.Gameweek) + "-retry"
		if err := h.publisher.Enqueue(ctx, "/v1/internal/jobs/score-gameweek", nil, scoringRetryDelay, dedupID); err != nil {
			h.logger.WarnContext(ctx, "re-enqueue scoring job failed", "gameweek", batch.Gameweek, "error", err)
		}
	}

	writeSuccess(ctx, w, http.StatusOK, batchResultDTO{
		Gameweek: batch.Gameweek,
		Scored:   batch.Scored,
		Pending:  batch.Pending,
		Failed:   batch.Failed,
		Complete: batch.Pending == 0 && batch.Failed == 0,
	})
}

// RunIngestStatsJob pulls feed records for one round, or for a span of rounds
// when through_week is set.
func (h *Handler) RunIngestStatsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestStatsJob")
	defer span.End()

	var req ingestStatsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var (
		reports []usecase.IngestReport
		err     error
	)
	if req.ThroughWeek > 0 {
		reports, err = h.statsService.IngestRange(ctx, req.Gameweek, req.ThroughWeek)
	} else {
		var report usecase.IngestReport
		report, err = h.statsService.IngestGameweek(ctx, req.Gameweek)
		reports = []usecase.IngestReport{report}
	}
	if err != nil {
		h.logger.WarnContext(ctx, "ingest stats job failed", "gameweek", req.Gameweek, "through_week", req.ThroughWeek, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ingestReportDTO, 0, len(reports))
	for _, report := range reports {
		items = append(items, ingestReportDTO{
			Gameweek:  report.Gameweek,
			Records:   report.Records,
			Finalized: report.Finalized,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// RunAdvanceGameweekJob rolls the league over to the next round.
func (h *Handler) RunAdvanceGameweekJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAdvanceGameweekJob")
	defer span.End()

	next, err := h.scoringService.AdvanceGameweek(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "advance gameweek job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(next))
}
