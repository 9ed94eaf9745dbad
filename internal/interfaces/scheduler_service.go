package interfaces

// SchedulerService runs background maintenance on a cron schedule
type SchedulerService interface {
	Start() error
	Stop()
}
