package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
)

type machineService struct {
	machines repository.MachineRepo
}

func NewMachineService(machines repository.MachineRepo) MachineService {
	return &machineService{machines: machines}
}

func validMachineStatus(s domain.MachineStatus) bool {
	switch s {
	case domain.MachineAvailable, domain.MachineDown, domain.MachineSetup, domain.MachineOffline:
		return true
	}
	return false
}

func (s *machineService) Create(ctx context.Context, actor Actor, in CreateMachineInput) (*domain.Machine, error) {
	if !actor.CanManageUsers() {
		return nil, deniedf("only managers may register machines")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("machine name is required")
	}
	status := in.Status
	if status == "" {
		status = domain.MachineAvailable
	}
	if !validMachineStatus(status) {
		return nil, validationf("unknown machine status %q", status)
	}

	m := &domain.Machine{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      in.Type,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.machines.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *machineService) GetByID(ctx context.Context, id string) (*domain.Machine, error) {
	return s.machines.GetByID(ctx, id)
}

func (s *machineService) List(ctx context.Context) ([]*domain.Machine, error) {
	return s.machines.List(ctx)
}

func (s *machineService) UpdateStatus(ctx context.Context, actor Actor, id string, status domain.MachineStatus) (*domain.Machine, error) {
	if !actor.Authenticated() {
		return nil, deniedf("login required")
	}
	if !validMachineStatus(status) {
		return nil, validationf("unknown machine status %q", status)
	}
	m, err := s.machines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Status = status
	if err := s.machines.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *machineService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.CanManageUsers() {
		return deniedf("only managers may remove machines")
	}
	return s.machines.Delete(ctx, id)
}
