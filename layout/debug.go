package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局快照输出为 JSON，便于调试或可视化。
func WriteDebugJSON(snap *Snapshot, path string) error {
	if snap == nil {
		return nil
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
