package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HapaxPablo/online-cinema-server/internal/repo"
)

type ActorHandler struct {
	actorRepo *repo.ActorRepo
}

func NewActorHandler(actorRepo *repo.ActorRepo) *ActorHandler {
	return &ActorHandler{actorRepo: actorRepo}
}

// List godoc
// @Summary List actors
// @Tags actors
// @Produce json
// @Param search query string false "Search over name and slug"
// @Success 200 {array} repo.Actor
// @Router /api/actors [get]
func (h *ActorHandler) List(c *fiber.Ctx) error {
	actors, err := h.actorRepo.FindAll(c.Context(), c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to list actors"})
	}
	return c.JSON(actors)
}

// BySlug godoc
// @Summary Get actor by slug
// @Tags actors
// @Produce json
// @Param slug path string true "Actor slug"
// @Success 200 {object} repo.Actor
// @Failure 404 {object} ErrorResponse
// @Router /api/actors/by-slug/{slug} [get]
func (h *ActorHandler) BySlug(c *fiber.Ctx) error {
	actor, err := h.actorRepo.FindBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to get actor"})
	}
	if actor == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "actor not found"})
	}
	return c.JSON(actor)
}

// Get godoc
// @Summary Get actor by id
// @Tags actors
// @Security BearerAuth
// @Produce json
// @Param id path string true "Actor id"
// @Success 200 {object} repo.Actor
// @Failure 404 {object} ErrorResponse
// @Router /api/actors/{id} [get]
func (h *ActorHandler) Get(c *fiber.Ctx) error {
	if _, err := primitive.ObjectIDFromHex(c.Params("id")); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid actor id"})
	}

	actor, err := h.actorRepo.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to get actor"})
	}
	if actor == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "actor not found"})
	}
	return c.JSON(actor)
}

// Create godoc
// @Summary Create a blank actor
// @Tags actors
// @Security BearerAuth
// @Produce json
// @Success 201 {object} CreatedResponse
// @Router /api/actors [post]
func (h *ActorHandler) Create(c *fiber.Ctx) error {
	id, err := h.actorRepo.CreateEmpty(c.Context())
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to create actor"})
	}
	return c.Status(201).JSON(CreatedResponse{ID: id.Hex()})
}

// Update godoc
// @Summary Update actor
// @Tags actors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Actor id"
// @Param request body repo.ActorContent true "Actor content"
// @Success 200 {object} repo.Actor
// @Failure 404 {object} ErrorResponse
// @Router /api/actors/{id} [put]
func (h *ActorHandler) Update(c *fiber.Ctx) error {
	var content repo.ActorContent
	if err := c.BodyParser(&content); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}

	actor, err := h.actorRepo.ApplyUpdate(c.Context(), c.Params("id"), &content)
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to update actor"})
	}
	if actor == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "actor not found"})
	}
	return c.JSON(actor)
}

// Delete godoc
// @Summary Delete actor
// @Tags actors
// @Security BearerAuth
// @Produce json
// @Param id path string true "Actor id"
// @Success 200 {object} repo.Actor
// @Failure 404 {object} ErrorResponse
// @Router /api/actors/{id} [delete]
func (h *ActorHandler) Delete(c *fiber.Ctx) error {
	actor, err := h.actorRepo.DeleteByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(ErrorResponse{Error: "failed to delete actor"})
	}
	if actor == nil {
		return c.Status(404).JSON(ErrorResponse{Error: "actor not found"})
	}
	return c.JSON(actor)
}
