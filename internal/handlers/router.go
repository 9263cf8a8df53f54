package handlers

import "net/http"

func NewRouter(game *GameHandler, recs *RecordsHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/records", recs.List)

	mux.HandleFunc("POST /v1/game", game.NewGame)
	mux.HandleFunc("GET /v1/game/{id}", game.Fetch)
	mux.HandleFunc("POST /v1/game/{id}/open", game.Open)
	mux.HandleFunc("POST /v1/game/{id}/flag", game.Flag)
	mux.HandleFunc("POST /v1/game/{id}/chord", game.Chord)
	mux.HandleFunc("POST /v1/game/{id}/forfeit", game.Forfeit)
	mux.HandleFunc("POST /v1/game/{id}/batch", game.Batch)

	mux.HandleFunc("GET /v1/game/{id}/connect", game.ConnectWS)

	return mux
}
