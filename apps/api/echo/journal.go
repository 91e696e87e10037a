package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core/journal"
)

type journalApi struct {
	svc journal.Service
}

func registerJournalAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc journal.Service) {
	api := journalApi{svc: svc}

	jg := g.Group("/journal", jwt)
	jg.POST("", api.log, teacherMiddleware())
	jg.GET("", api.query)
	jg.GET("/:id", api.retrieve)
}

// Handlers

func (api *journalApi) log(ctx echo.Context) error {
	var data journal.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	entry, err := api.svc.Log(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *journalApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(journal.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []journal.Entry{})
	}
	// teachers only ever see their own entries
	if !claims.IsAdmin() {
		if !claims.IsTeacher() {
			return errHttpForbidden
		}
		filter.TeacherID = claims.Subject
	}

	entries, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying journal entries")
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *journalApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	entry, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == journal.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding journal entry")
	}
	if !claims.IsAdmin() && entry.TeacherID != claims.Subject {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, entry)
}
