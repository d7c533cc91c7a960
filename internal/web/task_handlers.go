package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"taskfollow/internal/domain"
	"taskfollow/internal/logging"
	"taskfollow/internal/schedule"
	"taskfollow/internal/services"
)

// taskRows prepares tasks for list display, classifying each deadline
// against the same instant.
func (s *Server) taskRows(tasks []*domain.Task, now time.Time) []TaskRow {
	rows := make([]TaskRow, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, TaskRow{
			Task:           task,
			Classification: schedule.Classify(task.Deadline, now),
			DeadlineText:   task.Deadline.In(s.loc).Format(s.timeFmt),
		})
	}
	return rows
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, user *domain.User) {
	now := time.Now()
	field := services.ParseSortField(r.URL.Query().Get("sort"))
	order := services.ParseSortOrder(r.URL.Query().Get("order"))

	lists, err := s.container.Queries.ListTasks(r.Context(), user.ID, field, order)
	if err != nil {
		s.fail(w, r, err, "/login")
		return
	}
	followees, err := s.container.Identity.ListFollowees(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err, "/login")
		return
	}

	// The embedded grid shows the active lists only; /calendar carries
	// every task regardless of completion.
	activeTasks := make([]*domain.Task, 0, len(lists.MyActive)+len(lists.SharedActive))
	activeTasks = append(activeTasks, lists.MyActive...)
	activeTasks = append(activeTasks, lists.SharedActive...)
	year, month := parseMonthQuery(r, now, s.loc)
	grid, err := schedule.RenderMonth(activeTasks, year, month, now, s.loc)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	view := &HomeView{
		Page:            s.page(w, r, "Tasks", user),
		MyActive:        s.taskRows(lists.MyActive, now),
		MyCompleted:     s.taskRows(lists.MyCompleted, now),
		SharedActive:    s.taskRows(lists.SharedActive, now),
		SharedCompleted: s.taskRows(lists.SharedCompleted, now),
		Followees:       followees,
		Calendar:        grid,
		CurrentSort:     field,
		CurrentOrder:    order,
	}
	if err := s.renderer.RenderHome(w, view); err != nil {
		logging.Debugf("render home: %v\n", err)
	}
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request, user *domain.User) {
	now := time.Now()

	calendarTasks, err := s.container.Queries.ListCalendarTasks(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	followees, err := s.container.Identity.ListFollowees(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	year, month := parseMonthQuery(r, now, s.loc)
	grid, err := schedule.RenderMonth(calendarTasks, year, month, now, s.loc)
	if err != nil {
		s.fail(w, r, err, "/calendar")
		return
	}

	view := &CalendarView{
		Page:      s.page(w, r, "Calendar", user),
		Followees: followees,
		Calendar:  grid,
	}
	if err := s.renderer.RenderCalendar(w, view); err != nil {
		logging.Debugf("render calendar: %v\n", err)
	}
}

func (s *Server) handleExpired(w http.ResponseWriter, r *http.Request, user *domain.User) {
	now := time.Now()

	lists, err := s.container.Queries.ListExpired(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	view := &ExpiredView{
		Page:          s.page(w, r, "Expired Tasks", user),
		MyExpired:     s.taskRows(lists.MyExpired, now),
		SharedExpired: s.taskRows(lists.SharedExpired, now),
	}
	if err := s.renderer.RenderExpired(w, view); err != nil {
		logging.Debugf("render expired: %v\n", err)
	}
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, user *domain.User) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, err, "/")
		return
	}

	deadline, err := parseDeadline(r.PostFormValue("deadline"), s.loc)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	_, err = s.container.Tasks.CreateTask(r.Context(), user.ID,
		r.PostFormValue("name"), deadline, r.PostForm["share_with"])
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, user *domain.User) {
	taskID, err := parseTaskID(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, err, "/")
		return
	}

	deadline, err := parseDeadline(r.PostFormValue("deadline"), s.loc)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	_, err = s.container.Tasks.UpdateTask(r.Context(), user.ID, taskID,
		r.PostFormValue("name"), deadline, r.PostForm["share_with"])
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	target := safeRedirectTarget(r.FormValue("next"), "/")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, user *domain.User) {
	taskID, err := parseTaskID(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	if err := s.container.Tasks.DeleteTask(r.Context(), user.ID, taskID); err != nil {
		s.fail(w, r, err, "/")
		return
	}

	target := safeRedirectTarget(r.FormValue("next"), "/")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request, user *domain.User) {
	taskID, err := parseTaskID(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	if _, err := s.container.Tasks.CompleteTask(r.Context(), user.ID, taskID); err != nil {
		s.fail(w, r, err, "/")
		return
	}

	target := safeRedirectTarget(r.FormValue("next"), "/")
	http.Redirect(w, r, target, http.StatusSeeOther)
}
