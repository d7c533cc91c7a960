package web

import (
	"net/http"

	"taskfollow/internal/domain"
	"taskfollow/internal/schedule"
	"taskfollow/internal/services"
)

// Page carries the data every view shares
type Page struct {
	Title    string
	User     *domain.User
	Messages []string
}

// TaskRow is a single task prepared for list display
type TaskRow struct {
	Task           *domain.Task
	Classification schedule.Classification
	DeadlineText   string
}

// HomeView is the data for the combined list + embedded calendar page
type HomeView struct {
	Page
	MyActive        []TaskRow
	MyCompleted     []TaskRow
	SharedActive    []TaskRow
	SharedCompleted []TaskRow
	Followees       []*domain.User
	Calendar        *schedule.MonthGrid
	CurrentSort     services.SortField
	CurrentOrder    services.SortOrder
}

// CalendarView is the data for the full month calendar page
type CalendarView struct {
	Page
	Followees []*domain.User
	Calendar  *schedule.MonthGrid
}

// ExpiredView is the data for the expired task lists page
type ExpiredView struct {
	Page
	MyExpired     []TaskRow
	SharedExpired []TaskRow
}

// UserRow is a user prepared for the follow page
type UserRow struct {
	User     *domain.User
	Followed bool
}

// UsersView is the data for the follow page
type UsersView struct {
	Page
	Users []UserRow
}

// FormView is the data for the register and login pages
type FormView struct {
	Page
}

// Renderer turns view models into a response. Page markup is an external
// collaborator; handlers only ever talk to this contract.
type Renderer interface {
	RenderHome(w http.ResponseWriter, view *HomeView) error
	RenderCalendar(w http.ResponseWriter, view *CalendarView) error
	RenderExpired(w http.ResponseWriter, view *ExpiredView) error
	RenderUsers(w http.ResponseWriter, view *UsersView) error
	RenderRegister(w http.ResponseWriter, view *FormView) error
	RenderLogin(w http.ResponseWriter, view *FormView) error
}
