package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/config"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/database"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/handlers"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/jobs"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/notify"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/repository"
	cronjobs "github.com/studybuddy-app/StudyBuddy-Server/internal/scheduler"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/services"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/email"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/logger"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/middleware"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/push"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Transport clients, constructed once and injected ---
	mailer := email.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPPassword)
	pusher := push.NewFCMClient(cfg.FCMServerKey)

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewStudyPlanRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// --- Notification fan-out ---
	resolver := notify.NewResolver(userRepo)
	dispatcher := notify.NewDispatcher(pusher, mailer, notifRepo)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	planService := services.NewStudyPlanService(planRepo)
	notificationService := services.NewNotificationService(notifRepo, mailer)
	reminderService := services.NewReminderService(reminderRepo)
	invitationService := services.NewInvitationService(invitationRepo, planRepo)

	// --- Scheduled scanners ---
	deadlineScanner := jobs.NewDeadlineScanner(planRepo, resolver, dispatcher)
	stagnationScanner := jobs.NewStagnationScanner(planRepo, resolver, dispatcher)
	cronjobs.StartScannerCronJobs(deadlineScanner, stagnationScanner, notificationService, cfg.SchedulerTimezone)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	planHandler := handlers.NewStudyPlanHandler(planService, reminderService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, userService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, planService, userService, notificationService, cfg.AppBaseURL)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Study plan routes
	planRoutes := router.PathPrefix("/study-plans").Subrouter()
	planRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	planRoutes.HandleFunc("", planHandler.CreateStudyPlanHandler).Methods("POST")
	planRoutes.HandleFunc("", planHandler.GetStudyPlansHandler).Methods("GET")
	planRoutes.HandleFunc("/{id}", planHandler.GetStudyPlanHandler).Methods("GET")
	planRoutes.HandleFunc("/{id}", planHandler.UpdateStudyPlanHandler).Methods("PUT")
	planRoutes.HandleFunc("/{id}", planHandler.DeleteStudyPlanHandler).Methods("DELETE")
	planRoutes.HandleFunc("/{id}/tasks", planHandler.AddTaskHandler).Methods("POST")
	planRoutes.HandleFunc("/{id}/tasks/{taskId}/toggle", planHandler.ToggleTaskHandler).Methods("PATCH")
	planRoutes.HandleFunc("/{id}/tasks/{taskId}", planHandler.DeleteTaskHandler).Methods("DELETE")
	planRoutes.HandleFunc("/{id}/members", planHandler.AddMemberHandler).Methods("POST")
	planRoutes.HandleFunc("/{id}/reminders", reminderHandler.GetPlanRemindersHandler).Methods("GET")
	planRoutes.HandleFunc("/{id}/invitations", invitationHandler.CreateInvitationHandler).Methods("POST")

	// Notification routes
	notifRoutes := router.PathPrefix("/notifications").Subrouter()
	notifRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notifRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	notifRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	notifRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")
	notifRoutes.HandleFunc("/fcm-token", notificationHandler.UpdateFCMTokenHandler).Methods("POST")
	notifRoutes.HandleFunc("/invitation-email", notificationHandler.SendInvitationEmailHandler).Methods("POST")
	notifRoutes.HandleFunc("/member-added-email", notificationHandler.SendMemberAddedEmailHandler).Methods("POST")

	// Reminder routes
	reminderRoutes := router.PathPrefix("/reminders").Subrouter()
	reminderRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	reminderRoutes.HandleFunc("/upcoming", reminderHandler.GetUpcomingRemindersHandler).Methods("GET")
	reminderRoutes.HandleFunc("/{id}/dismiss", reminderHandler.DismissReminderHandler).Methods("POST")

	// Invitation routes; lookup is public, redemption requires a caller
	router.HandleFunc("/invitations/{token}", invitationHandler.GetInvitationHandler).Methods("GET")
	redeemRoutes := router.PathPrefix("/invitations").Subrouter()
	redeemRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	redeemRoutes.HandleFunc("/{token}/redeem", invitationHandler.RedeemInvitationHandler).Methods("POST")

	// User routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/me/preferences", userHandler.UpdatePreferencesHandler).Methods("PUT")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppBaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
