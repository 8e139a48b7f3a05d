package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/services"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationHandler handles invitation creation, lookup and redemption.
type InvitationHandler struct {
	Service             *services.InvitationService
	PlanService         *services.StudyPlanService
	UserService         *services.UserService
	NotificationService *services.NotificationService
	AppBaseURL          string
}

func NewInvitationHandler(service *services.InvitationService, planService *services.StudyPlanService, userService *services.UserService, notificationService *services.NotificationService, appBaseURL string) *InvitationHandler {
	return &InvitationHandler{
		Service:             service,
		PlanService:         planService,
		UserService:         userService,
		NotificationService: notificationService,
		AppBaseURL:          appBaseURL,
	}
}

// POST /study-plans/{id}/invitations
// Creates an invitation and, when an invitee email is given, sends the
// invitation mail.
func (h *InvitationHandler) CreateInvitationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	var body struct {
		InviteeEmail string `json:"invitee_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	plan, err := h.PlanService.GetStudyPlan(r.Context(), mux.Vars(r)["id"], uid)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, "Study plan not found", http.StatusNotFound)
		return
	}

	inviter, err := h.UserService.GetUser(r.Context(), uid)
	if err != nil {
		http.Error(w, "Failed to load inviter", http.StatusInternalServerError)
		return
	}

	inv, err := h.Service.CreateInvitation(r.Context(), plan, inviter, body.InviteeEmail)
	if err != nil {
		logrus.WithError(err).Error("Failed to create invitation")
		http.Error(w, "Failed to create invitation", http.StatusInternalServerError)
		return
	}

	if body.InviteeEmail != "" {
		req := services.InvitationEmailRequest{
			InviteeEmail:   body.InviteeEmail,
			StudyPlanTitle: plan.Title,
			InviterName:    inviter.DisplayName,
			InvitationURL:  fmt.Sprintf("%s/invite/%s", h.AppBaseURL, inv.Token),
		}
		if err := h.NotificationService.SendInvitationEmail(r.Context(), uid, req); err != nil {
			logrus.WithError(err).Error("Failed to send invitation email")
			http.Error(w, "Internal: failed to send invitation email", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inv)
}

// GET /invitations/{token}
func (h *InvitationHandler) GetInvitationHandler(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.GetInvitation(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		http.Error(w, "Invitation not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inv)
}

// POST /invitations/{token}/redeem
func (h *InvitationHandler) RedeemInvitationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	uid, _ := primitive.ObjectIDFromHex(claims.UserID)

	plan, err := h.Service.Redeem(r.Context(), mux.Vars(r)["token"], uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationUsed):
			http.Error(w, "This invitation has already been used", http.StatusConflict)
		case errors.Is(err, services.ErrInvitationExpired):
			http.Error(w, "This invitation has expired", http.StatusGone)
		case errors.Is(err, services.ErrAlreadyMember):
			http.Error(w, "You are already a member of this study plan", http.StatusConflict)
		default:
			http.Error(w, "Invitation not found", http.StatusNotFound)
		}
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"planID": plan.ID.Hex(),
	}).Info("User joined study plan via invitation")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}
