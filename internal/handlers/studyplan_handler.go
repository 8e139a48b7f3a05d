package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/repository"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/services"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudyPlanHandler handles HTTP requests related to study plans and their
// embedded tasks.
type StudyPlanHandler struct {
	Service         *services.StudyPlanService
	ReminderService *services.ReminderService
}

// NewStudyPlanHandler creates a new instance of StudyPlanHandler.
func NewStudyPlanHandler(planService *services.StudyPlanService, reminderService *services.ReminderService) *StudyPlanHandler {
	return &StudyPlanHandler{
		Service:         planService,
		ReminderService: reminderService,
	}
}

// CreateStudyPlanHandler handles the creation of a new study plan.
func (h *StudyPlanHandler) CreateStudyPlanHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized access attempt during plan creation")
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	var plan models.StudyPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during plan creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to convert user ID")
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	created, err := h.Service.CreateStudyPlan(r.Context(), &plan, ownerID)
	if err != nil {
		logrus.WithError(err).Error("Failed to create study plan")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.ReminderService.CreateAutomaticReminders(r.Context(), created, time.Now())

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"planID": created.ID.Hex(),
	}).Info("Study plan successfully created")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// GetStudyPlanHandler handles fetching a single study plan by its ID.
func (h *StudyPlanHandler) GetStudyPlanHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	plan, err := h.Service.GetStudyPlan(r.Context(), mux.Vars(r)["id"], uid)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			http.Error(w, "Forbidden: You can only view your own or shared plans", http.StatusForbidden)
			return
		}
		http.Error(w, "Study plan not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// GetStudyPlansHandler lists the caller's plans.
func (h *StudyPlanHandler) GetStudyPlansHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	plans, err := h.Service.GetStudyPlansForUser(r.Context(), uid)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch study plans")
		http.Error(w, "Failed to fetch study plans", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

// UpdateStudyPlanHandler handles updating plan metadata.
func (h *StudyPlanHandler) UpdateStudyPlanHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	var updated models.StudyPlan
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	plan, err := h.Service.UpdateStudyPlan(r.Context(), mux.Vars(r)["id"], uid, &updated)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			http.Error(w, "Forbidden: Only participants can update the plan", http.StatusForbidden)
			return
		}
		logrus.WithError(err).Error("Failed to update study plan")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.ReminderService.CreateAutomaticReminders(r.Context(), plan, time.Now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// DeleteStudyPlanHandler handles deleting a plan; owner only.
func (h *StudyPlanHandler) DeleteStudyPlanHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.DeleteStudyPlan(r.Context(), mux.Vars(r)["id"], uid); err != nil {
		if errors.Is(err, services.ErrOwnerOnly) {
			http.Error(w, "Forbidden: Only the owner can delete a study plan", http.StatusForbidden)
			return
		}
		http.Error(w, "Study plan not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Study plan deleted"})
}

// AddTaskHandler appends a task to the plan.
func (h *StudyPlanHandler) AddTaskHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	plan, err := h.Service.AddTask(r.Context(), mux.Vars(r)["id"], uid, task)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// ToggleTaskHandler flips a task's completion state.
func (h *StudyPlanHandler) ToggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	vars := mux.Vars(r)
	plan, err := h.Service.ToggleTask(r.Context(), vars["id"], uid, vars["taskId"])
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// DeleteTaskHandler removes a task from the plan.
func (h *StudyPlanHandler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	vars := mux.Vars(r)
	plan, err := h.Service.DeleteTask(r.Context(), vars["id"], uid, vars["taskId"])
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// AddMemberHandler appends a pending-email member to the plan.
func (h *StudyPlanHandler) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.AddMemberByEmail(r.Context(), mux.Vars(r)["id"], uid, body.Email); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Member added"})
}

func (h *StudyPlanHandler) writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrTaskNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrConflict):
		http.Error(w, "Study plan was modified concurrently, retry", http.StatusConflict)
	default:
		logrus.WithError(err).Error("Task mutation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
