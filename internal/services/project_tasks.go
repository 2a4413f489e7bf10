package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// TaskInput represents parameters to create a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	AssignedTo  string
	Status      models.TaskStatus
	CreatedBy   string
}

// AddTask appends a task to the board. Status defaults to todo.
func (s *ProjectService) AddTask(projectID string, input TaskInput) (*models.Task, error) {
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	now := s.clock.Now()
	t := models.Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		Status:      input.Status,
		CreatedAt:   now,
		CreatedBy:   input.CreatedBy,
	}
	p, err := s.mutate("task.add", projectID, func(p *models.Project) error {
		if p.Completed() {
			return ErrProjectCompleted
		}
		p.Tasks = append(p.Tasks, t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(p, ActivityTaskAdded, t.CreatedBy,
		fmt.Sprintf("%s added to \"%s\"", t.Title, p.Title),
		map[string]string{"taskId": t.ID})
	return &t, nil
}

// UpdateTaskInput carries editable task fields; nil fields are kept.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *string
	AssignedTo  *string
	Status      *models.TaskStatus
	UpdatedBy   string
}

// UpdateTask edits a task in place.
func (s *ProjectService) UpdateTask(projectID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	var t models.Task
	p, err := s.mutate("task.update", projectID, func(p *models.Project) error {
		idx := findTask(p, taskID)
		if idx < 0 {
			return ErrTaskNotFound
		}
		task := &p.Tasks[idx]
		setIf(&task.Title, input.Title)
		setIf(&task.Description, input.Description)
		setIf(&task.DueDate, input.DueDate)
		setIf(&task.AssignedTo, input.AssignedTo)
		if input.Status != nil {
			task.Status = *input.Status
		}
		task.UpdatedAt = s.clock.Now()
		task.UpdatedBy = input.UpdatedBy
		t = *task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(p, ActivityTaskUpdated, t.UpdatedBy,
		fmt.Sprintf("%s updated in \"%s\"", t.Title, p.Title),
		map[string]string{"taskId": t.ID})
	return &t, nil
}

// DeleteTask removes a task from the board.
func (s *ProjectService) DeleteTask(projectID, taskID, actor string) error {
	p, err := s.mutate("task.delete", projectID, func(p *models.Project) error {
		idx := findTask(p, taskID)
		if idx < 0 {
			return ErrTaskNotFound
		}
		p.Tasks = append(p.Tasks[:idx:idx], p.Tasks[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.record(p, ActivityTaskDeleted, actor,
		fmt.Sprintf("Task %s removed from \"%s\"", taskID, p.Title),
		map[string]string{"taskId": taskID})
	return nil
}

// ChangeTaskStatus moves a task between columns. Every move to done
// re-evaluates the assignee's badges.
func (s *ProjectService) ChangeTaskStatus(projectID, taskID string, status models.TaskStatus, actor string) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	var t models.Task
	p, err := s.mutate("task.status", projectID, func(p *models.Project) error {
		idx := findTask(p, taskID)
		if idx < 0 {
			return ErrTaskNotFound
		}
		p.Tasks[idx].Status = status
		t = p.Tasks[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == models.TaskStatusDone && t.AssignedTo != "" {
		s.award(t.AssignedTo)
	}
	if t.AssignedTo != "" {
		actor = t.AssignedTo
	}
	s.record(p, ActivityTaskStatusChanged, actor,
		fmt.Sprintf("Task %s status changed to %s in \"%s\"", taskID, status, p.Title),
		map[string]string{"taskId": taskID, "newStatus": string(status)})
	return &t, nil
}

// AssignTask sets the assignee of a task and nothing else.
func (s *ProjectService) AssignTask(projectID, taskID, memberName, actor string) (*models.Task, error) {
	var t models.Task
	p, err := s.mutate("task.assign", projectID, func(p *models.Project) error {
		idx := findTask(p, taskID)
		if idx < 0 {
			return ErrTaskNotFound
		}
		p.Tasks[idx].AssignedTo = memberName
		t = p.Tasks[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(p, ActivityTaskAssigned, actor,
		fmt.Sprintf("Task %s assigned to %s in \"%s\"", taskID, memberName, p.Title),
		map[string]string{"taskId": taskID, "memberName": memberName})
	return &t, nil
}

func findTask(p *models.Project, id string) int {
	for i, t := range p.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// FileInput describes an uploaded file.
type FileInput struct {
	Name       string
	Type       string
	Data       string
	UploadedBy string
}

// AddFile shares a file with the project.
func (s *ProjectService) AddFile(projectID string, input FileInput) (*models.ProjectFile, error) {
	f := models.ProjectFile{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Type:       input.Type,
		Data:       input.Data,
		UploadedBy: input.UploadedBy,
		UploadedAt: s.clock.Now(),
	}
	p, err := s.mutate("file.add", projectID, func(p *models.Project) error {
		if p.Completed() {
			return ErrProjectCompleted
		}
		p.Files = append(p.Files, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uploader := f.UploadedBy
	if uploader == "" {
		uploader = "unknown"
	}
	s.record(p, ActivityFileAdded, f.UploadedBy,
		fmt.Sprintf("%s uploaded to \"%s\" by %s", f.Name, p.Title, uploader),
		map[string]string{"fileId": f.ID})
	return &f, nil
}

// DeleteFile removes a shared file.
func (s *ProjectService) DeleteFile(projectID, fileID, actor string) error {
	p, err := s.mutate("file.delete", projectID, func(p *models.Project) error {
		for i, f := range p.Files {
			if f.ID == fileID {
				p.Files = append(p.Files[:i:i], p.Files[i+1:]...)
				return nil
			}
		}
		return ErrFileNotFound
	})
	if err != nil {
		return err
	}

	s.record(p, ActivityFileDeleted, actor,
		fmt.Sprintf("File %s removed from \"%s\"", fileID, p.Title),
		map[string]string{"fileId": fileID})
	return nil
}

// Messages returns the project chat in send order.
func (s *ProjectService) Messages(projectID string) ([]models.Message, error) {
	p, err := s.Get(projectID)
	if err != nil {
		return nil, err
	}
	if p.Messages == nil {
		return []models.Message{}, nil
	}
	return p.Messages, nil
}

// AddMessage appends a chat message and tells every other member.
func (s *ProjectService) AddMessage(projectID, sender, text string) (*models.Message, error) {
	m := models.Message{
		ID:     uuid.NewString(),
		Sender: sender,
		Text:   text,
		Time:   s.clock.Now(),
	}
	p, err := s.mutate("chat.message", projectID, func(p *models.Project) error {
		if p.Completed() {
			return ErrProjectCompleted
		}
		p.Messages = append(p.Messages, m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	notes := make([]models.Notification, 0, len(p.Members))
	for _, member := range p.Members {
		if member.Name == sender {
			continue
		}
		notes = append(notes, s.notification(p, member.Name, sender, NotifyChatMessage,
			fmt.Sprintf("%s mengirim pesan baru.", sender)))
	}
	s.notify(notes...)
	s.record(p, ActivityChatMessage, sender,
		fmt.Sprintf("%s sent a message in \"%s\"", sender, p.Title),
		map[string]string{"messageId": m.ID})
	return &m, nil
}
