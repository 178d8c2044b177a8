package services

import (
	"errors"
	"strings"

	"pairquiz/apperrors"
	"pairquiz/models"

	"gorm.io/gorm"
)

// QuestionService administers the question bank the matchmaker draws from.
type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type CreateQuestionRequest struct {
	Body           string   `json:"body" binding:"required,min=10,max=500"`
	CorrectAnswers []string `json:"correct_answers" binding:"required,min=1"`
}

type UpdateQuestionRequest struct {
	Body           string   `json:"body" binding:"required,min=10,max=500"`
	CorrectAnswers []string `json:"correct_answers" binding:"required,min=1"`
}

type PublishQuestionRequest struct {
	Published *bool `json:"published" binding:"required"`
}

func sanitizeCorrectAnswers(answers []string) ([]string, error) {
	cleaned := make([]string, 0, len(answers))
	for _, answer := range answers {
		if trimmed := strings.TrimSpace(answer); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperrors.BadRequest("Question", "correct answers must contain at least one non-empty entry")
	}
	return cleaned, nil
}

func (s *QuestionService) CreateQuestion(req *CreateQuestionRequest) (*models.Question, error) {
	answers, err := sanitizeCorrectAnswers(req.CorrectAnswers)
	if err != nil {
		return nil, err
	}

	question := models.Question{
		Body:           req.Body,
		CorrectAnswers: answers,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) GetQuestions() ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Order("created_at DESC").Find(&questions).Error
	return questions, err
}

func (s *QuestionService) GetQuestionByID(questionID string) (*models.Question, error) {
	var question models.Question
	err := s.db.First(&question, "id = ?", questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Question", "question not found")
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) UpdateQuestion(questionID string, req *UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.GetQuestionByID(questionID)
	if err != nil {
		return nil, err
	}

	answers, err := sanitizeCorrectAnswers(req.CorrectAnswers)
	if err != nil {
		return nil, err
	}

	question.Body = req.Body
	question.CorrectAnswers = answers
	if err := s.db.Save(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) SetPublished(questionID string, published bool) (*models.Question, error) {
	question, err := s.GetQuestionByID(questionID)
	if err != nil {
		return nil, err
	}

	question.Published = published
	if err := s.db.Save(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) DeleteQuestion(questionID string) error {
	if _, err := s.GetQuestionByID(questionID); err != nil {
		return err
	}
	return s.db.Delete(&models.Question{}, "id = ?", questionID).Error
}
