package job

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run() error
}

// CronJobBuilder wraps jobs with timing and error logs for the cron runner.
type CronJobBuilder struct {
	log *zap.Logger
}

func NewCronJobBuilder(log *zap.Logger) *CronJobBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &CronJobBuilder{log: log}
}

func (b *CronJobBuilder) Build(j Job) cron.Job {
	name := j.Name()
	return cron.FuncJob(func() {
		start := time.Now()
		err := j.Run()
		log := b.log.With(zap.String("job", name), zap.Duration("took", time.Since(start)))
		if err != nil {
			log.Error("[job] run failed", zap.Error(err))
			return
		}
		log.Debug("[job] run finished")
	})
}

// NewScheduler registers j under spec (seconds field included) on a new cron.
// The caller starts and stops it.
func NewScheduler(spec string, j Job, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddJob(spec, NewCronJobBuilder(log).Build(j)); err != nil {
		return nil, err
	}
	return c, nil
}
