package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/services"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/logger"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationHandler struct {
	Service     *services.NotificationService
	UserService *services.UserService
}

func NewNotificationHandler(service *services.NotificationService, userService *services.UserService) *NotificationHandler {
	return &NotificationHandler{
		Service:     service,
		UserService: userService,
	}
}

// GET /notifications
func (h *NotificationHandler) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	notifications, err := h.Service.GetUserNotifications(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch notifications: %v", err)
		http.Error(w, "Failed to get notifications", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(notifications)
}

// POST /notifications/{id}/read
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	notifID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.MarkNotificationAsRead(r.Context(), notifID); err != nil {
		logger.Log.Errorf("Failed to mark notification as read: %v", err)
		http.Error(w, "Failed to mark as read", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification marked as read"})
}

// DELETE /notifications/{id}
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	notifID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteNotification(r.Context(), notifID); err != nil {
		logger.Log.Errorf("Failed to delete notification: %v", err)
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification deleted"})
}

// POST /notifications/fcm-token
// Upserts the caller's push token with merge semantics.
func (h *NotificationHandler) UpdateFCMTokenHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	var body struct {
		FCMToken string `json:"fcm_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.UserService.UpdateFCMToken(r.Context(), userID, body.FCMToken); err != nil {
		logger.Log.Errorf("Failed to update FCM token: %v", err)
		http.Error(w, "Failed to update FCM token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// POST /notifications/invitation-email
// The one path besides member-added mail where a transport failure is
// surfaced to the caller.
func (h *NotificationHandler) SendInvitationEmailHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	inviterID, _ := primitive.ObjectIDFromHex(claims.UserID)

	var req services.InvitationEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.InviteeEmail == "" {
		http.Error(w, "Invitee email is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.SendInvitationEmail(r.Context(), inviterID, req); err != nil {
		logger.Log.Errorf("Failed to send invitation email: %v", err)
		http.Error(w, "Internal: failed to send invitation email", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// POST /notifications/member-added-email
func (h *NotificationHandler) SendMemberAddedEmailHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	inviterID, _ := primitive.ObjectIDFromHex(claims.UserID)

	var req services.MemberAddedEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.MemberEmail == "" {
		http.Error(w, "Member email is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.SendMemberAddedEmail(r.Context(), inviterID, req); err != nil {
		logger.Log.Errorf("Failed to send member added email: %v", err)
		http.Error(w, "Internal: failed to send member added email", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
