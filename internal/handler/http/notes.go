package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-notes-keeper/internal/service"
	"github.com/MKhiriev/go-notes-keeper/internal/utils"
	"github.com/MKhiriev/go-notes-keeper/models"
)

const (
	msgNoteSoftDeleted = "Note moved to recently deleted."
	msgNotePurged      = "Note permanently deleted."

	msgListNotesFailed        = "An error occurred while fetching notes."
	msgCreateNoteFailed       = "An error occurred while creating note."
	msgGetNoteFailed          = "An error occurred while fetching note."
	msgUpdateNoteFailed       = "An error occurred while updating note."
	msgDeleteNoteFailed       = "An error occurred while deleting note."
	msgListDeletedNotesFailed = "An error occurred while fetching recently deleted notes."
	msgRestoreNoteFailed      = "An error occurred while restoring note."
	msgPurgeNoteFailed        = "An error occurred while permanently deleting note."

	queryParamTag           = "tag"
	queryParamFavoritesOnly = "favorites"
)

// listNotes serves GET /notes[?tag=T][&favorites=true].
func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, err, msgListNotesFailed)
		return
	}

	query := r.URL.Query()
	favoritesOnly, _ := strconv.ParseBool(query.Get(queryParamFavoritesOnly))

	notes, err := h.services.NoteService.ListNotes(r.Context(), models.NoteFilter{
		UserID:        userID,
		Tag:           query.Get(queryParamTag),
		FavoritesOnly: favoritesOnly,
	})
	if err != nil {
		writeServiceError(w, r, err, msgListNotesFailed)
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, err, msgCreateNoteFailed)
		return
	}

	var req models.NoteRequest
	if err = decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgCreateNoteFailed)
		return
	}

	note, err := h.services.NoteService.CreateNote(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err, msgCreateNoteFailed)
		return
	}

	utils.WriteJSON(w, note, http.StatusCreated)
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.noteTarget(w, r, service.ErrNoteNotFound, msgGetNoteFailed)
	if !ok {
		return
	}

	note, err := h.services.NoteService.GetNote(r.Context(), userID, noteID)
	if err != nil {
		writeServiceError(w, r, err, msgGetNoteFailed)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.noteTarget(w, r, service.ErrNoteNotFound, msgUpdateNoteFailed)
	if !ok {
		return
	}

	var req models.NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgUpdateNoteFailed)
		return
	}

	note, err := h.services.NoteService.UpdateNote(r.Context(), userID, noteID, req)
	if err != nil {
		writeServiceError(w, r, err, msgUpdateNoteFailed)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) setFavorite(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.noteTarget(w, r, service.ErrNoteNotFound, msgUpdateNoteFailed)
	if !ok {
		return
	}

	var req models.FavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgUpdateNoteFailed)
		return
	}

	note, err := h.services.NoteService.SetFavorite(r.Context(), userID, noteID, req.Favorite)
	if err != nil {
		writeServiceError(w, r, err, msgUpdateNoteFailed)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.noteTarget(w, r, service.ErrNoteNotFound, msgDeleteNoteFailed)
	if !ok {
		return
	}

	note, err := h.services.NoteService.DeleteNote(r.Context(), userID, noteID)
	if err != nil {
		writeServiceError(w, r, err, msgDeleteNoteFailed)
		return
	}

	utils.WriteJSON(w, models.NoteResponse{Message: msgNoteSoftDeleted, Note: note}, http.StatusOK)
}

func (h *Handler) listRecentlyDeleted(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, err, msgListDeletedNotesFailed)
		return
	}

	notes, err := h.services.NoteService.ListNotes(r.Context(), models.NoteFilter{UserID: userID, Deleted: true})
	if err != nil {
		writeServiceError(w, r, err, msgListDeletedNotesFailed)
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) restoreNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.noteTarget(w, r, service.ErrRecentlyDeletedNoteNotFound, msgRestoreNoteFailed)
	if !ok {
		return
	}

	note, err := h.services.NoteService.RestoreNote(r.Context(), userID, noteID)
	if err != nil {
		writeServiceError(w, r, err, msgRestoreNoteFailed)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) purgeNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.noteTarget(w, r, service.ErrRecentlyDeletedNoteNotFound, msgPurgeNoteFailed)
	if !ok {
		return
	}

	if err := h.services.NoteService.PurgeNote(r.Context(), userID, noteID); err != nil {
		writeServiceError(w, r, err, msgPurgeNoteFailed)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: msgNotePurged}, http.StatusOK)
}

// noteTarget resolves the caller and the {id} parameter. A malformed id is
// answered like a missing note. The response is already written when ok is false.
func (h *Handler) noteTarget(w http.ResponseWriter, r *http.Request, notFound error, fallback string) (userID, noteID int64, ok bool) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, err, fallback)
		return 0, 0, false
	}

	noteID, err = noteIDFromURL(r)
	if err != nil {
		writeServiceError(w, r, notFound, fallback)
		return 0, 0, false
	}

	return userID, noteID, true
}
