package domain

import "time"

type Machine struct {
	ID        string
	Name      string
	Type      string
	Status    MachineStatus
	CreatedAt time.Time
}
