package session

import (
	"encoding/json"
	"os"

	"github.com/existflow/teamplan/internal/api"
)

func writeSession(path, serverURL string) error {
	data, err := json.Marshal(api.Session{ServerURL: serverURL, Token: "revoked", UserID: "u1"})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
