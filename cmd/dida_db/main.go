package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"dida/internal/db"
)

// PocketBase API endpoints
const (
	collectionsEndpoint = "/api/collections"
)

// Collection schema for PocketBase
type Collection struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Fields  []Field  `json:"fields"`
	Indexes []string `json:"indexes"`
}

// Field represents a schema field in PocketBase
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Options  any    `json:"options,omitempty"`
}

// CollectionListResponse represents the response when listing collections
type CollectionListResponse struct {
	Page       int          `json:"page"`
	PerPage    int          `json:"perPage"`
	TotalItems int          `json:"totalItems"`
	Items      []Collection `json:"items"`
}

func main() {
	manager, err := db.InitManager()
	if err != nil {
		log.Fatal("Failed to initialize database manager", "error", err)
	}
	log.Info("Authentication successful")

	for _, collection := range collections() {
		exists, err := collectionExists(manager, collection.Name)
		if err != nil {
			log.Fatal("Failed to check collection", "collection", collection.Name, "error", err)
		}
		if exists {
			log.Info("Collection already exists", "collection", collection.Name)
			continue
		}
		if err := createCollection(manager, collection); err != nil {
			log.Fatal("Failed to create collection", "collection", collection.Name, "error", err)
		}
		log.Info("Collection created", "collection", collection.Name)
	}
}

func collections() []Collection {
	return []Collection{
		{
			Name: db.CollectionFitness,
			Type: "base",
			Fields: []Field{
				{Name: "date", Type: "text", Required: true},
				{Name: "timestamp", Type: "date", Required: false},
				{Name: "exercises", Type: "json", Required: false},
				{Name: "notes", Type: "text", Required: false},
			},
		},
		{
			Name: db.CollectionCalories,
			Type: "base",
			Fields: []Field{
				{Name: "date", Type: "text", Required: true},
				{Name: "timestamp", Type: "date", Required: false},
				{Name: "foodName", Type: "text", Required: false},
				{Name: "calories", Type: "number", Required: true},
				{Name: "portion", Type: "text", Required: false},
				{Name: "mealType", Type: "text", Required: false},
			},
		},
		{
			Name: db.CollectionExpenses,
			Type: "base",
			Fields: []Field{
				{Name: "date", Type: "text", Required: true},
				{Name: "timestamp", Type: "date", Required: false},
				{Name: "description", Type: "text", Required: false},
				{Name: "amount", Type: "number", Required: true},
				{Name: "category", Type: "text", Required: false},
				{Name: "notes", Type: "text", Required: false},
			},
		},
		{
			Name: db.CollectionTodos,
			Type: "base",
			Fields: []Field{
				{Name: "title", Type: "text", Required: true},
				{Name: "description", Type: "text", Required: false},
				{Name: "category", Type: "text", Required: false},
				{Name: "priority", Type: "text", Required: false},
				{Name: "completed", Type: "bool", Required: false},
				{Name: "dueDate", Type: "text", Required: false},
				{Name: "createdAt", Type: "date", Required: false},
			},
		},
		{
			Name: db.CollectionAttendance,
			Type: "base",
			Fields: []Field{
				{Name: "date", Type: "text", Required: true},
				{Name: "note", Type: "text", Required: false},
			},
			Indexes: []string{fmt.Sprintf("CREATE UNIQUE INDEX `attendance_date_index` ON `%s` (`date`)", db.CollectionAttendance)},
		},
		{
			Name: db.CollectionSettings,
			Type: "base",
			Fields: []Field{
				{Name: "key", Type: "text", Required: true},
				{Name: "value", Type: "json", Required: false},
			},
			Indexes: []string{fmt.Sprintf("CREATE UNIQUE INDEX `settings_key_index` ON `%s` (`key`)", db.CollectionSettings)},
		},
		{
			Name: db.CollectionTokens,
			Type: "base",
			Fields: []Field{
				{Name: "token", Type: "text", Required: true},
				{Name: "platform", Type: "text", Required: false},
			},
			Indexes: []string{fmt.Sprintf("CREATE UNIQUE INDEX `token_index` ON `%s` (`token`)", db.CollectionTokens)},
		},
	}
}

// collectionExists checks if a collection with the given name exists
func collectionExists(manager *db.Manager, name string) (bool, error) {
	req, err := http.NewRequest("GET", manager.BaseURL+collectionsEndpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", manager.AuthToken)

	resp, err := manager.Client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp db.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return false, fmt.Errorf("failed to list collections with status %d: %s", resp.StatusCode, string(body))
		}
		return false, fmt.Errorf("failed to list collections: %s", errResp.Message)
	}

	var listResp CollectionListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return false, err
	}

	for _, collection := range listResp.Items {
		if collection.Name == name {
			return true, nil
		}
	}

	return false, nil
}

func createCollection(manager *db.Manager, collection Collection) error {
	jsonData, err := json.Marshal(collection)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", manager.BaseURL+collectionsEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", manager.AuthToken)

	resp, err := manager.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp db.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return fmt.Errorf("failed to create collection with status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("failed to create collection: %s", errResp.Message)
	}

	return nil
}
