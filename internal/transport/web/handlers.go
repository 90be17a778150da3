package web

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/internal/storage/hospitals"
)

const (
	searchLimit      = 5
	defaultCityLimit = 3
)

type searchResult struct {
	Status    string                `json:"status"`
	Count     int                   `json:"count,omitempty"`
	Hospitals []core.HospitalRecord `json:"hospitals,omitempty"`
	Message   string                `json:"message,omitempty"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "healthy",
		"hospitals_loaded": s.data.Len(),
	})
}

func (s *Server) converse(c *fiber.Ctx) error {
	var req core.Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return c.JSON(s.conv.Converse(c.UserContext(), req))
}

func (s *Server) searchHospitals(c *fiber.Ctx) error {
	if err := s.requireData(); err != nil {
		return err
	}
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query is required")
	}

	records, err := s.data.Filter(c.UserContext(), core.Query{
		Name:  query,
		City:  strings.TrimSpace(c.Query("city")),
		Limit: searchLimit,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return c.JSON(searchResult{Status: "no_results", Message: fmt.Sprintf("No hospitals found for '%s'", query)})
	}
	return c.JSON(searchResult{Status: "success", Count: len(records), Hospitals: records})
}

func (s *Server) searchByCity(c *fiber.Ctx) error {
	if err := s.requireData(); err != nil {
		return err
	}
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		return fiber.NewError(fiber.StatusBadRequest, "city is required")
	}
	limit := c.QueryInt("limit", defaultCityLimit)
	if limit <= 0 {
		limit = defaultCityLimit
	}

	records, err := s.data.Filter(c.UserContext(), core.Query{City: city, Limit: limit})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return c.JSON(searchResult{Status: "no_results", Message: fmt.Sprintf("No hospitals found in %s", city)})
	}
	return c.JSON(searchResult{Status: "success", Count: len(records), Hospitals: records})
}

// uploadCSV validates the file before anything is replaced, so a bad upload
// leaves the current dataset in place.
func (s *Server) uploadCSV(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	records, err := hospitals.Parse(bytes.NewReader(data))
	if err != nil {
		s.reloaded(0, err)
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if s.datasetPath != "" {
		if err := hospitals.WriteFile(s.datasetPath, data); err != nil {
			s.reloaded(0, err)
			return fmt.Errorf("failed to persist dataset: %w", err)
		}
	}

	s.data.Replace(records)
	s.reloaded(len(records), nil)
	return c.JSON(fiber.Map{
		"status":           "success",
		"message":          "CSV uploaded and loaded",
		"hospitals_loaded": len(records),
	})
}

func (s *Server) requireData() error {
	if s.data.Len() == 0 {
		return fiber.NewError(fiber.StatusInternalServerError, "Hospital database not loaded")
	}
	return nil
}

func (s *Server) reloaded(n int, err error) {
	if s.onReload != nil {
		s.onReload(hospitals.SourceUpload, n, err)
	}
}
