package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncls-p/notes-sub001/internal/models"
)

func createFolder(t *testing.T, server *testServer, token, name string, parentID *uuid.UUID) models.Folder {
	t.Helper()

	body := gin.H{"folderName": name}
	if parentID != nil {
		body["parentId"] = parentID.String()
	}

	recorder := server.request(t, http.MethodPost, "/api/folders", token, body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var folder models.Folder
	decodeData(t, recorder, &folder)
	return folder
}

func userID(t *testing.T, server *testServer, email string) uuid.UUID {
	t.Helper()

	var user models.User
	require.NoError(t, server.db.Where("email = ?", email).First(&user).Error)
	return user.ID
}

func TestFolderCRUD(t *testing.T) {
	server := newTestServer(t)
	token, _ := server.registerUser(t, "owner@example.com")

	parent := createFolder(t, server, token, "Folder1", nil)
	child := createFolder(t, server, token, "Folder2", &parent.ID)
	grandchild := createFolder(t, server, token, "Folder3", &child.ID)

	// Get renders the ancestor path.
	recorder := server.request(t, http.MethodGet, "/api/folders/"+grandchild.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var details struct {
		Folder models.Folder `json:"folder"`
		Path   string        `json:"path"`
	}
	decodeData(t, recorder, &details)
	assert.Equal(t, "Folder1 / Folder2", details.Path)

	rootFolder := server.request(t, http.MethodGet, "/api/folders/"+parent.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rootFolder.Code)
	decodeData(t, rootFolder, &details)
	assert.Equal(t, "Root", details.Path)

	// Rename.
	renamed := server.request(t, http.MethodPut, "/api/folders/"+parent.ID.String(), token, gin.H{"folderName": "Renamed"})
	require.Equal(t, http.StatusOK, renamed.Code)
	var folder models.Folder
	decodeData(t, renamed, &folder)
	assert.Equal(t, "Renamed", folder.FolderName)

	// Delete.
	deleted := server.request(t, http.MethodDelete, "/api/folders/"+child.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, deleted.Code)

	gone := server.request(t, http.MethodGet, "/api/folders/"+child.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestMoveFolderCycleRejected(t *testing.T) {
	server := newTestServer(t)
	token, _ := server.registerUser(t, "owner@example.com")

	a := createFolder(t, server, token, "a", nil)
	b := createFolder(t, server, token, "b", &a.ID)
	c := createFolder(t, server, token, "c", &b.ID)

	// a under its own descendant.
	cycle := server.request(t, http.MethodPut, "/api/folders/"+a.ID.String()+"/move", token, gin.H{"parentId": c.ID.String()})
	assert.Equal(t, http.StatusConflict, cycle.Code)

	selfParent := server.request(t, http.MethodPut, "/api/folders/"+a.ID.String()+"/move", token, gin.H{"parentId": a.ID.String()})
	assert.Equal(t, http.StatusConflict, selfParent.Code)

	// A legal move still works.
	legal := server.request(t, http.MethodPut, "/api/folders/"+c.ID.String()+"/move", token, gin.H{"parentId": a.ID.String()})
	assert.Equal(t, http.StatusOK, legal.Code)

	toRoot := server.request(t, http.MethodPut, "/api/folders/"+c.ID.String()+"/move", token, gin.H{})
	assert.Equal(t, http.StatusOK, toRoot.Code)
}

// A stranger gets the same 404 whether the folder exists or not, and
// the owner's denials never leak existence either.
func TestFolderAccessHidesExistence(t *testing.T) {
	server := newTestServer(t)
	ownerToken, _ := server.registerUser(t, "owner@example.com")
	strangerToken, _ := server.registerUser(t, "stranger@example.com")

	folder := createFolder(t, server, ownerToken, "secret", nil)

	existing := server.request(t, http.MethodGet, "/api/folders/"+folder.ID.String(), strangerToken, nil)
	missing := server.request(t, http.MethodGet, "/api/folders/"+uuid.New().String(), strangerToken, nil)

	assert.Equal(t, http.StatusNotFound, existing.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, existing.Body.String(), missing.Body.String())
}

func TestFolderSharingGrants(t *testing.T) {
	server := newTestServer(t)
	ownerToken, _ := server.registerUser(t, "owner@example.com")
	viewerToken, _ := server.registerUser(t, "viewer@example.com")
	editorToken, _ := server.registerUser(t, "editor@example.com")

	folder := createFolder(t, server, ownerToken, "shared", nil)
	sharePath := "/api/folders/" + folder.ID.String() + "/share"

	shareView := server.request(t, http.MethodPost, sharePath, ownerToken, gin.H{
		"email":       "viewer@example.com",
		"accessLevel": "view",
	})
	require.Equal(t, http.StatusOK, shareView.Code, shareView.Body.String())

	shareEdit := server.request(t, http.MethodPost, sharePath, ownerToken, gin.H{
		"email":       "editor@example.com",
		"accessLevel": "edit",
	})
	require.Equal(t, http.StatusOK, shareEdit.Code)

	// view: read yes, write no.
	assert.Equal(t, http.StatusOK,
		server.request(t, http.MethodGet, "/api/folders/"+folder.ID.String(), viewerToken, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		server.request(t, http.MethodPut, "/api/folders/"+folder.ID.String(), viewerToken, gin.H{"folderName": "nope"}).Code)

	// edit: read and write yes, delete and manage no.
	assert.Equal(t, http.StatusOK,
		server.request(t, http.MethodGet, "/api/folders/"+folder.ID.String(), editorToken, nil).Code)
	assert.Equal(t, http.StatusOK,
		server.request(t, http.MethodPut, "/api/folders/"+folder.ID.String(), editorToken, gin.H{"folderName": "edited"}).Code)
	assert.Equal(t, http.StatusNotFound,
		server.request(t, http.MethodDelete, "/api/folders/"+folder.ID.String(), editorToken, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		server.request(t, http.MethodPost, sharePath, editorToken, gin.H{
			"email":       "viewer@example.com",
			"accessLevel": "edit",
		}).Code)

	// Upsert: re-sharing the viewer with edit upgrades in place.
	upgrade := server.request(t, http.MethodPost, sharePath, ownerToken, gin.H{
		"email":       "viewer@example.com",
		"accessLevel": "edit",
	})
	require.Equal(t, http.StatusOK, upgrade.Code)
	assert.Equal(t, http.StatusOK,
		server.request(t, http.MethodPut, "/api/folders/"+folder.ID.String(), viewerToken, gin.H{"folderName": "now-editable"}).Code)

	// Revoking removes access again.
	viewerID := userID(t, server, "viewer@example.com")
	revoke := server.request(t, http.MethodDelete, sharePath+"/"+viewerID.String(), ownerToken, nil)
	require.Equal(t, http.StatusOK, revoke.Code)
	assert.Equal(t, http.StatusNotFound,
		server.request(t, http.MethodGet, "/api/folders/"+folder.ID.String(), viewerToken, nil).Code)

	revokeAgain := server.request(t, http.MethodDelete, sharePath+"/"+viewerID.String(), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, revokeAgain.Code)
}

func TestShareFolderValidation(t *testing.T) {
	server := newTestServer(t)
	ownerToken, _ := server.registerUser(t, "owner@example.com")
	folder := createFolder(t, server, ownerToken, "f", nil)
	sharePath := "/api/folders/" + folder.ID.String() + "/share"

	badLevel := server.request(t, http.MethodPost, sharePath, ownerToken, gin.H{
		"email":       "owner@example.com",
		"accessLevel": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, badLevel.Code)

	noTarget := server.request(t, http.MethodPost, sharePath, ownerToken, gin.H{
		"accessLevel": "view",
	})
	assert.Equal(t, http.StatusBadRequest, noTarget.Code)

	selfShare := server.request(t, http.MethodPost, sharePath, ownerToken, gin.H{
		"email":       "owner@example.com",
		"accessLevel": "view",
	})
	assert.Equal(t, http.StatusBadRequest, selfShare.Code)

	unknownUser := server.request(t, http.MethodPost, sharePath, ownerToken, gin.H{
		"email":       "nobody@example.com",
		"accessLevel": "view",
	})
	assert.Equal(t, http.StatusNotFound, unknownUser.Code)
}

func TestCreateFolderUnderForeignParent(t *testing.T) {
	server := newTestServer(t)
	ownerToken, _ := server.registerUser(t, "owner@example.com")
	strangerToken, _ := server.registerUser(t, "stranger@example.com")

	parent := createFolder(t, server, ownerToken, "mine", nil)

	recorder := server.request(t, http.MethodPost, "/api/folders", strangerToken, gin.H{
		"folderName": "sneaky",
		"parentId":   parent.ID.String(),
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
