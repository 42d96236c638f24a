package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Sweep() error
	LastSweep() int
}
