// Package access answers "may this actor perform this operation on this
// entity" questions. The lifecycle services trust these gates and perform no
// authorization of their own.
package access

import "github.com/spec-kit/jobops-service/internal/domain"

// CanManageJobs reports whether the actor may list or create jobs.
func CanManageJobs(actor *domain.User) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.IsSalesAgent()
}

// CanAccessJob reports whether the actor may read or modify a specific job:
// admins and sales agents, the assigned technician, or the job's creator.
func CanAccessJob(actor *domain.User, job *domain.Job) bool {
	if actor == nil || job == nil {
		return false
	}
	if actor.IsAdmin() || actor.IsSalesAgent() {
		return true
	}
	if job.AssignedTo != nil && *job.AssignedTo == actor.ID {
		return true
	}
	return job.CreatedBy == actor.ID
}

// CanManageTasks reports whether the actor may manage tasks under a job:
// admins, sales agents, or the assigned technician.
func CanManageTasks(actor *domain.User, job *domain.Job) bool {
	if actor == nil || job == nil {
		return false
	}
	if actor.IsAdmin() || actor.IsSalesAgent() {
		return true
	}
	return job.AssignedTo != nil && *job.AssignedTo == actor.ID
}

// CanUpdateTaskStatus reports whether the actor may invoke the dedicated
// task-status-update operation. Only the assigned technician may.
func CanUpdateTaskStatus(actor *domain.User, job *domain.Job) bool {
	if actor == nil || job == nil {
		return false
	}
	return job.AssignedTo != nil && *job.AssignedTo == actor.ID
}

// CanManageEquipment reports whether the actor may manage the equipment
// catalog. Admin only; everyone authenticated may read active entries.
func CanManageEquipment(actor *domain.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanViewAnalytics reports whether the actor may view aggregate analytics.
func CanViewAnalytics(actor *domain.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanManageUsers reports whether the actor may administer the user directory.
func CanManageUsers(actor *domain.User) bool {
	return actor != nil && actor.IsAdmin()
}
