package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/service"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
)

type CourseHandler struct {
	courseService *service.CourseService
}

func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GetBuilderPayload serves the hydration payload for the edit page.
func (h *CourseHandler) GetBuilderPayload(c *gin.Context) {
	payload, err := h.courseService.BuilderPayload(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	c.JSON(http.StatusOK, payload)
}

// CreateCourse accepts the create page's form submission.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	h.submit(c, "")
}

// UpdateCourse accepts the edit page's form submission for an existing
// course, including the delete_course action.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	h.submit(c, c.Param("slug"))
}

func (h *CourseHandler) submit(c *gin.Context, slug string) {
	userID := c.GetUint("user_id")

	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form submission"})
		return
	}

	result, err := h.courseService.Submit(userID, slug, c.Request.PostForm)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		case errors.Is(err, service.ErrNotCourseOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this course"})
		case errors.Is(err, service.ErrCourseIncomplete), errors.Is(err, service.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error(err, "Failed to save course", map[string]interface{}{
				"user_id": userID,
				"slug":    slug,
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save course"})
		}
		return
	}

	if result.Deleted {
		c.JSON(http.StatusOK, gin.H{"success": true, "deleted": true, "redirect": "/courses/"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"slug":     result.Course.Slug,
		"status":   result.Course.Status,
		"redirect": "/courses/" + result.Course.Slug + "/",
	})
}
