package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/HapaxPablo/online-cinema-server/internal/middleware"
	"github.com/HapaxPablo/online-cinema-server/internal/repo"
)

type UserHandler struct {
	userRepo  *repo.UserRepo
	movieRepo *repo.MovieRepo
}

func NewUserHandler(userRepo *repo.UserRepo, movieRepo *repo.MovieRepo) *UserHandler {
	return &UserHandler{userRepo: userRepo, movieRepo: movieRepo}
}

// Profile godoc
// @Summary Get own profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} repo.User
// @Router /api/users/profile [get]
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := h.userRepo.FindByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "internal server error"})
	}
	if user == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "user not found"})
	}
	return c.JSON(user)
}

type UpdateProfileRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Change email and optionally the password.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body UpdateProfileRequest true "Profile"
// @Success 200 {object} repo.User
// @Router /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Email == "" {
		return c.Status(400).JSON(ErrorResponse{Error: "email is required"})
	}

	var hash string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(500).JSON(ErrorResponse{Error: "internal server error"})
		}
		hash = string(hashed)
	}

	user, err := h.userRepo.UpdateProfile(c.Context(), middleware.GetUserID(c), req.Email, hash)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to update profile"})
	}
	if user == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "user not found"})
	}
	return c.JSON(user)
}

// Favorites godoc
// @Summary List favorite movies
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} repo.Movie
// @Router /api/users/profile/favorites [get]
func (h *UserHandler) Favorites(c *fiber.Ctx) error {
	user, err := h.userRepo.FindByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "internal server error"})
	}
	if user == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "user not found"})
	}

	movies, err := h.movieRepo.FindByIDs(c.Context(), user.Favorites)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list favorites"})
	}
	if movies == nil {
		movies = []repo.Movie{}
	}
	return c.JSON(movies)
}

type ToggleFavoriteRequest struct {
	MovieID primitive.ObjectID `json:"movie_id"`
}

// ToggleFavorite godoc
// @Summary Toggle a favorite movie
// @Tags users
// @Security BearerAuth
// @Accept json
// @Param body body ToggleFavoriteRequest true "Movie id"
// @Success 200 {object} SuccessResponse
// @Router /api/users/profile/favorites [put]
func (h *UserHandler) ToggleFavorite(c *fiber.Ctx) error {
	var req ToggleFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.MovieID.IsZero() {
		return c.Status(400).JSON(ErrorResponse{Error: "movie_id is required"})
	}

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		return c.Status(401).JSON(ErrorResponse{Error: "unauthorized"})
	}

	if err := h.userRepo.ToggleFavorite(c.Context(), userID, req.MovieID); err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to toggle favorite"})
	}
	return c.JSON(SuccessResponse{Message: "ok"})
}

// List godoc
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by email"
// @Success 200 {array} repo.User
// @Router /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userRepo.FindAll(c.Context(), c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list users"})
	}
	return c.JSON(users)
}

// Count godoc
// @Summary Count users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /api/users/count [get]
func (h *UserHandler) Count(c *fiber.Ctx) error {
	count, err := h.userRepo.Count(c.Context())
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to count users"})
	}
	return c.JSON(fiber.Map{"count": count})
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} repo.User
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.userRepo.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid user id"})
	}
	if user == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "user not found"})
	}
	return c.JSON(user)
}

type AdminUpdateUserRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// Update godoc
// @Summary Update user role
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param body body AdminUpdateUserRequest true "Role"
// @Success 200 {object} repo.User
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}

	user, err := h.userRepo.SetAdmin(c.Context(), c.Params("id"), req.IsAdmin)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to update user"})
	}
	if user == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "user not found"})
	}
	return c.JSON(user)
}

// Delete godoc
// @Summary Delete user
// @Tags users
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 200 {object} SuccessResponse
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userRepo.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to delete user"})
	}
	return c.JSON(SuccessResponse{Message: "user deleted"})
}
