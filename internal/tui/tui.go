package tui

import (
	"context"
	"fmt"

	"github.com/Joseda-hg/lazyproject/internal/logging"
	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/Joseda-hg/lazyproject/internal/resource"
	"github.com/Joseda-hg/lazyproject/internal/session"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/sirupsen/logrus"
)

const (
	viewHeader   = "header"
	viewFooter   = "footer"
	viewProjects = "projects"
	viewDetail   = "detail"
	viewTasks    = "tasks"
	viewForm     = "form"
)

type UI struct {
	ctx     context.Context
	session *session.Manager
	store   *resource.Store
	log     logrus.FieldLogger
	gui     *gocui.Gui

	focus           string
	selectedProject int
	selectedTask    int
	openProjectID   string

	form       *formState
	formEditor *formEditor
	status     string
	// email of the last signed-in user, used to prefill the sign-in form.
	email string
}

func newUI(ctx context.Context, sess *session.Manager, store *resource.Store, log logrus.FieldLogger) *UI {
	if log == nil {
		log = logging.Discard()
	}
	ui := &UI{
		ctx:     ctx,
		session: sess,
		store:   store,
		log:     log,
		focus:   viewProjects,
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

// Run shows the sign-in form, or the project list when a session was
// restored, and blocks until the user quits.
func Run(ctx context.Context, sess *session.Manager, store *resource.Store, log logrus.FieldLogger) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	gui.Mouse = true

	ui := newUI(ctx, sess, store, log)
	ui.gui = gui

	redraw := func() { gui.Update(func(*gocui.Gui) error { return nil }) }
	defer store.Subscribe(func(resource.State) { redraw() })()
	defer sess.Subscribe(func(session.State) {
		gui.Update(func(*gocui.Gui) error {
			ui.checkSession()
			return nil
		})
	})()

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.start()

	if err := gui.MainLoop(); err != nil && !goerrors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

func (u *UI) start() {
	if !u.session.Active() {
		u.form = authForm(false, "")
		return
	}
	u.rememberUser()
	u.loadProjects()
}

// dispatch runs op off the UI goroutine and applies the returned func on it.
// Without a gui everything runs inline.
func (u *UI) dispatch(op func(ctx context.Context) func()) {
	finish := func(apply func()) {
		if apply != nil {
			apply()
		}
		u.checkSession()
	}
	if u.gui == nil {
		finish(op(u.ctx))
		return
	}
	go func() {
		apply := op(u.ctx)
		u.gui.Update(func(*gocui.Gui) error {
			finish(apply)
			return nil
		})
	}()
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.quit},
		{'q', u.quit},
		{'r', u.reload},
		{'a', u.addItem},
		{'e', u.editItem},
		{'d', u.deleteItem},
		{'x', u.cycleTaskStatus},
		{'L', u.logout},
		{gocui.KeyTab, u.switchFocus},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	for _, name := range []string{viewProjects, viewTasks} {
		for key, handler := range map[any]func(*gocui.Gui, *gocui.View) error{
			gocui.KeyArrowDown: u.moveDown,
			'j':                u.moveDown,
			gocui.KeyArrowUp:   u.moveUp,
			'k':                u.moveUp,
		} {
			if err := gui.SetKeybinding(name, key, gocui.ModNone, handler); err != nil {
				return err
			}
		}
	}
	if err := gui.SetKeybinding(viewProjects, gocui.KeyEnter, gocui.ModNone, u.openProject); err != nil {
		return err
	}
	for _, name := range []string{viewProjects, viewTasks} {
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: name, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onListClick(gui, name, opts)
		}}); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelUp, gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelDown, gocui.ModNone, u.moveDown); err != nil {
			return err
		}
	}

	form := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyEnter, u.submitForm},
		{gocui.KeyCtrlJ, u.submitForm},
		{gocui.KeyTab, u.nextFormField},
		{gocui.KeyArrowDown, u.nextFormField},
		{gocui.KeyBacktab, u.prevFormField},
		{gocui.KeyArrowUp, u.prevFormField},
		{gocui.KeyEsc, u.cancelForm},
		{gocui.KeyCtrlR, u.toggleRegister},
	}
	for _, binding := range form {
		if err := gui.SetKeybinding(viewForm, binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	if u.signedIn() {
		if err := u.layoutPanes(gui, maxX, 1, footerY0-1); err != nil {
			return err
		}
	} else {
		for _, name := range []string{viewProjects, viewDetail, viewTasks} {
			_ = gui.DeleteView(name)
		}
	}

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
		if gui.CurrentView() == nil || gui.CurrentView().Name() == viewForm {
			_, _ = gui.SetCurrentView(u.focus)
		}
	}

	gui.Cursor = u.form != nil
	return nil
}

func (u *UI) layoutPanes(gui *gocui.Gui, maxX, bodyTop, bodyBottom int) error {
	if bodyBottom <= bodyTop {
		return nil
	}
	leftWidth := max((maxX-2)/3, 26)
	if leftWidth > maxX-20 {
		leftWidth = maxX / 2
	}
	leftX1 := leftWidth - 1
	projectsY1 := bodyTop + max((bodyBottom-bodyTop)*3/5, 4)
	if projectsY1 >= bodyBottom {
		projectsY1 = bodyBottom
	}

	state := u.store.State()

	projectsView, err := gui.SetView(viewProjects, 0, bodyTop, leftX1, projectsY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		projectsView.TitleColor = gocui.ColorGreen
	}
	projectsView.Title = fmt.Sprintf("Projects (%d)", len(state.Projects))
	applyViewStyle(projectsView, u.focus == viewProjects)
	u.renderProjects(projectsView, state.Projects)

	if projectsY1 < bodyBottom {
		detailView, err := gui.SetView(viewDetail, 0, projectsY1+1, leftX1, bodyBottom, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		detailView.Title = "Project"
		detailView.Wrap = true
		applyViewStyle(detailView, false)
		detailView.Clear()
		selected := u.currentProject(state.Projects)
		open := selected != nil && selected.ID == u.openProjectID
		fmt.Fprint(detailView, projectDetail(selected, state.Tasks, open))
	}

	tasksView, err := gui.SetView(viewTasks, leftX1+1, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	tasksView.Title = "Tasks"
	if open := findProject(state.Projects, u.openProjectID); open != nil {
		tasksView.Title = "Tasks: " + open.Title
	}
	applyViewStyle(tasksView, u.focus == viewTasks)
	u.renderTasks(tasksView, state.Tasks)
	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	who := "not signed in"
	if user := u.session.User(); user != nil {
		who = fmt.Sprintf("%s <%s>", user.Name, user.Email)
	}
	busy := ""
	if u.store.Loading() || u.session.Loading() {
		busy = " | loading..."
	}
	fmt.Fprintf(view, "lazyproject | %s%s", who, busy)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	if u.signedIn() && (u.form == nil || u.form.kind == formProject || u.form.kind == formTask) {
		fmt.Fprintln(view, "a add | e edit | d delete | x task status | enter open | tab pane | r reload | L logout | q quit")
	} else {
		fmt.Fprintln(view, "enter submit | tab next field | ctrl+r sign in/create account | ctrl+c quit")
	}

	message := u.status
	if message == "" {
		message = u.store.Err()
	}
	if message != "" {
		fmt.Fprint(view, message)
	}
}

func (u *UI) renderProjects(view *gocui.View, projects []model.Project) {
	view.Clear()
	u.selectedProject = clamp(u.selectedProject, len(projects))
	focused := u.focus == viewProjects
	for i, project := range projects {
		prefix := " "
		if i == u.selectedProject {
			prefix = "*"
			if focused {
				prefix = ">"
			}
		}
		open := " "
		if project.ID == u.openProjectID {
			open = "o"
		}
		fmt.Fprintf(view, "%s%s %s\n", prefix, open, formatProjectSummary(project))
	}
	if focused && len(projects) > 0 {
		view.SetCursor(0, u.selectedProject)
	}
}

func (u *UI) renderTasks(view *gocui.View, tasks []model.Task) {
	view.Clear()
	if u.openProjectID == "" {
		fmt.Fprint(view, "Press enter on a project to see its tasks")
		return
	}
	u.selectedTask = clamp(u.selectedTask, len(tasks))
	focused := u.focus == viewTasks
	for i, task := range tasks {
		prefix := " "
		if i == u.selectedTask {
			prefix = "*"
			if focused {
				prefix = ">"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task))
	}
	if focused && len(tasks) > 0 {
		view.SetCursor(0, u.selectedTask)
	}
}

func (u *UI) showForm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := len(u.form.fields) + 3
	x0 := max((maxX-width)/2, 0)
	y0 := max((maxY-height)/2, 0)

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = u.form.title()
	view.Wrap = true
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetViewOnTop(viewForm)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, displayValue(field))
	}
	current := u.form.fields[u.form.index]
	cursorX := len([]rune(current.Label)) + len([]rune(displayValue(current))) + 4
	view.SetCursor(cursorX, u.form.index)
}

func (u *UI) signedIn() bool {
	return u.session.Active()
}

func (u *UI) currentProject(projects []model.Project) *model.Project {
	if u.selectedProject >= 0 && u.selectedProject < len(projects) {
		return &projects[u.selectedProject]
	}
	return nil
}

func (u *UI) currentTask(tasks []model.Task) *model.Task {
	if u.openProjectID == "" {
		return nil
	}
	if u.selectedTask >= 0 && u.selectedTask < len(tasks) {
		return &tasks[u.selectedTask]
	}
	return nil
}

func (u *UI) setCurrentView(name string) {
	if u.gui == nil {
		return
	}
	_, _ = u.gui.SetCurrentView(name)
}

func (u *UI) closeForm() {
	u.form = nil
	if u.gui != nil {
		_ = u.gui.DeleteView(viewForm)
	}
	u.setCurrentView(u.focus)
}

func (u *UI) loadProjects() {
	u.dispatch(func(ctx context.Context) func() {
		_ = u.store.FetchProjects(ctx)
		return u.afterProjectsChanged
	})
}

// afterProjectsChanged closes the open project when it is gone.
func (u *UI) afterProjectsChanged() {
	projects := u.store.Projects()
	if u.openProjectID != "" && findProject(projects, u.openProjectID) == nil {
		u.openProjectID = ""
	}
	u.selectedProject = clamp(u.selectedProject, len(projects))
}

func (u *UI) inputActive() bool {
	return u.form != nil
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.signedIn() {
		return nil
	}
	u.status = ""
	openID := u.openProjectID
	u.dispatch(func(ctx context.Context) func() {
		_ = u.store.FetchProjects(ctx)
		if openID != "" {
			_ = u.store.FetchTasks(ctx, openID)
		}
		return u.afterProjectsChanged
	})
	return nil
}

func (u *UI) switchFocus(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.signedIn() {
		return nil
	}
	if u.focus == viewProjects {
		u.focus = viewTasks
	} else {
		u.focus = viewProjects
	}
	u.setCurrentView(u.focus)
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewProjects:
		if u.selectedProject < len(u.store.Projects())-1 {
			u.selectedProject++
		}
	case viewTasks:
		if u.selectedTask < len(u.store.Tasks())-1 {
			u.selectedTask++
		}
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewProjects:
		if u.selectedProject > 0 {
			u.selectedProject--
		}
	case viewTasks:
		if u.selectedTask > 0 {
			u.selectedTask--
		}
	}
	return nil
}

func (u *UI) onListClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}
	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	u.selectRow(viewName, opts.Y-y0-1+oy)
	return nil
}

// selectRow focuses the pane and selects row, clamped to its items.
func (u *UI) selectRow(viewName string, row int) {
	switch viewName {
	case viewProjects:
		u.selectedProject = clamp(row, len(u.store.Projects()))
	case viewTasks:
		u.selectedTask = clamp(row, len(u.store.Tasks()))
	default:
		return
	}
	u.focus = viewName
	u.setCurrentView(viewName)
}

// openProject loads the selected project's tasks and moves focus to them.
func (u *UI) openProject(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	project := u.currentProject(u.store.Projects())
	if project == nil {
		return nil
	}
	id := project.ID
	u.openProjectID = id
	u.selectedTask = 0
	u.focus = viewTasks
	u.setCurrentView(u.focus)
	u.dispatch(func(ctx context.Context) func() {
		_ = u.store.FetchTasks(ctx, id)
		return nil
	})
	return nil
}

func (u *UI) addItem(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.signedIn() {
		return nil
	}
	if u.focus == viewTasks {
		if u.openProjectID == "" {
			u.status = "Open a project first"
			return nil
		}
		u.form = taskForm(nil)
		return nil
	}
	u.form = projectForm(nil)
	return nil
}

func (u *UI) editItem(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.signedIn() {
		return nil
	}
	if u.focus == viewTasks {
		if task := u.currentTask(u.store.Tasks()); task != nil {
			u.form = taskForm(task)
		}
		return nil
	}
	if project := u.currentProject(u.store.Projects()); project != nil {
		u.form = projectForm(project)
	}
	return nil
}

func (u *UI) deleteItem(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.signedIn() {
		return nil
	}
	u.status = ""

	if u.focus == viewTasks {
		task := u.currentTask(u.store.Tasks())
		if task == nil {
			return nil
		}
		id := task.ID
		u.dispatch(func(ctx context.Context) func() {
			_ = u.store.DeleteTask(ctx, id)
			return nil
		})
		return nil
	}

	project := u.currentProject(u.store.Projects())
	if project == nil {
		return nil
	}
	id := project.ID
	u.dispatch(func(ctx context.Context) func() {
		_ = u.store.DeleteProject(ctx, id)
		return u.afterProjectsChanged
	})
	return nil
}

// cycleTaskStatus moves the selected task to its next workflow state.
func (u *UI) cycleTaskStatus(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTasks {
		return nil
	}
	task := u.currentTask(u.store.Tasks())
	if task == nil {
		return nil
	}
	id := task.ID
	patch := model.TaskPatch{Status: model.String(nextTaskStatus(task.Status))}
	u.dispatch(func(ctx context.Context) func() {
		_ = u.store.UpdateTask(ctx, id, patch)
		return nil
	})
	return nil
}

func (u *UI) logout(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.signedIn() {
		return nil
	}
	u.session.Logout(u.ctx)
	u.log.Info("Signed out from the terminal UI")
	u.showSignIn("")
	return nil
}

// showSignIn drops everything loaded for the previous user and opens the
// sign-in form, prefilled with their email.
func (u *UI) showSignIn(status string) {
	u.store.Reset()
	u.openProjectID = ""
	u.selectedProject = 0
	u.selectedTask = 0
	u.focus = viewProjects
	u.status = status
	if u.gui != nil {
		_ = u.gui.DeleteView(viewForm)
	}
	u.form = authForm(false, u.email)
}

// checkSession returns to the sign-in form when the session ended outside
// the UI, for example after the server rejected the token.
func (u *UI) checkSession() {
	if u.session.Active() {
		return
	}
	if u.form != nil && (u.form.kind == formLogin || u.form.kind == formRegister) {
		return
	}
	u.log.Info("Session ended, returning to sign in")
	u.showSignIn("Session expired, sign in again")
}

func (u *UI) rememberUser() {
	if user := u.session.User(); user != nil {
		u.email = user.Email
	}
}

func (u *UI) submitForm(_ *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}
	switch u.form.kind {
	case formLogin, formRegister:
		return u.submitAuth()
	case formProject:
		return u.submitProject()
	case formTask:
		return u.submitTask()
	}
	return nil
}

func (u *UI) submitAuth() error {
	form := u.form
	email := form.value(fieldEmail)
	password := form.fields[fieldPassword].Value
	if email == "" || password == "" {
		u.status = "Email and password are required"
		return nil
	}
	name := ""
	if form.kind == formRegister {
		name = form.value(fieldName)
		if name == "" {
			u.status = "Name is required"
			return nil
		}
	}

	u.status = ""
	u.dispatch(func(ctx context.Context) func() {
		var ok bool
		if form.kind == formRegister {
			ok = u.session.Register(ctx, email, password, name)
		} else {
			ok = u.session.Login(ctx, email, password)
		}
		return func() {
			if !ok {
				u.log.WithField("register", form.kind == formRegister).Debug("Sign in form rejected")
				form.fields[fieldPassword].Value = ""
				if form.kind == formRegister {
					u.status = "Could not create the account"
				} else {
					u.status = "Sign in failed"
				}
				return
			}
			u.rememberUser()
			u.closeForm()
			u.loadProjects()
		}
	})
	return nil
}

func (u *UI) submitProject() error {
	form := u.form
	input, err := parseProjectForm(form)
	if err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""

	if form.id == "" {
		u.dispatch(func(ctx context.Context) func() {
			err := u.store.CreateProject(ctx, input)
			return u.closeFormUnless(err)
		})
		return nil
	}

	current := findProject(u.store.Projects(), form.id)
	if current == nil {
		u.closeForm()
		return nil
	}
	patch := projectPatch(*current, input)
	if patch.Empty() {
		u.closeForm()
		return nil
	}
	id := form.id
	u.dispatch(func(ctx context.Context) func() {
		err := u.store.UpdateProject(ctx, id, patch)
		return u.closeFormUnless(err)
	})
	return nil
}

func (u *UI) submitTask() error {
	form := u.form
	input, err := parseTaskForm(form, u.openProjectID)
	if err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""

	if form.id == "" {
		u.dispatch(func(ctx context.Context) func() {
			err := u.store.CreateTask(ctx, input)
			return u.closeFormUnless(err)
		})
		return nil
	}

	var current *model.Task
	for _, task := range u.store.Tasks() {
		if task.ID == form.id {
			current = &task
			break
		}
	}
	if current == nil {
		u.closeForm()
		return nil
	}
	patch := taskPatch(*current, input)
	if patch.Empty() {
		u.closeForm()
		return nil
	}
	id := form.id
	u.dispatch(func(ctx context.Context) func() {
		err := u.store.UpdateTask(ctx, id, patch)
		return u.closeFormUnless(err)
	})
	return nil
}

// closeFormUnless keeps the form open after a failure so the input can be
// retried; the store's error is shown in the footer.
func (u *UI) closeFormUnless(err error) func() {
	return func() {
		if err != nil {
			return
		}
		u.closeForm()
	}
}

func (u *UI) cancelForm(_ *gocui.Gui, _ *gocui.View) error {
	if u.form == nil || u.form.kind == formLogin || u.form.kind == formRegister {
		return nil
	}
	u.status = ""
	u.closeForm()
	return nil
}

func (u *UI) toggleRegister(_ *gocui.Gui, _ *gocui.View) error {
	if u.form == nil || (u.form.kind != formLogin && u.form.kind != formRegister) {
		return nil
	}
	u.status = ""
	u.form = authForm(u.form.kind == formLogin, u.form.value(fieldEmail))
	return nil
}

func (u *UI) nextFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func applyViewStyle(view *gocui.View, focused bool) {
	view.Frame = true
	view.Highlight = focused
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}
