package metabox

import (
	"context"
	"fmt"

	"github.com/goliatone/go-posttypes/pkg/host"
)

// Save persists the submitted value for postID. Submissions that are not
// meant for this box are skipped without error: no token, a token that does
// not verify, a caller without the edit capability, or no submitted value.
// An empty nonce reads the token from the request key NonceID().
//
// Verification uses the action "<id>_save" rather than SaveID(), so a
// customised SaveID renders tokens that will not verify here.
// TODO(posttypes): confirm with the descriptor owners whether Save should
// verify against SaveID() and switch once agreed.
//
// Submitted values are stored as-is under MetaKey(); only host storage
// failures are returned.
func (m *MetaBox) Save(ctx context.Context, postID int64, nonce string) error {
	id := m.ID()
	if nonce == "" {
		values, ok := m.host.PostValue(ctx, m.NonceID())
		if !ok || len(values) == 0 {
			m.logger.DebugContext(ctx, "metabox save skipped: no nonce", "metabox", id, "post_id", postID)
			return nil
		}
		nonce = values[0]
	}

	if !m.host.VerifyNonce(ctx, nonce, id+"_save") {
		m.logger.DebugContext(ctx, "metabox save skipped: nonce rejected", "metabox", id, "post_id", postID)
		return nil
	}

	if !m.host.CurrentUserCan(ctx, "edit_"+m.CapabilityType(), postID) {
		m.logger.DebugContext(ctx, "metabox save skipped: capability denied", "metabox", id, "post_id", postID, "capability_type", m.CapabilityType())
		return nil
	}

	submitted, ok := m.host.PostValue(ctx, id)
	if !ok || len(submitted) == 0 {
		m.logger.DebugContext(ctx, "metabox save skipped: no value submitted", "metabox", id, "post_id", postID)
		return nil
	}

	if err := m.host.UpdatePostMeta(ctx, postID, m.MetaKey(), submitted...); err != nil {
		return fmt.Errorf("metabox: save %s for post %d: %w", id, postID, err)
	}
	return nil
}

// RegisterSaveAction wires Save to the save hook of each post type. Without
// arguments, or for an empty type name, the global save hook is used.
// Duplicate names are registered once.
func (m *MetaBox) RegisterSaveAction(postTypes ...string) {
	if len(postTypes) == 0 {
		postTypes = []string{""}
	}
	seen := make(map[string]struct{}, len(postTypes))
	for _, postType := range postTypes {
		if _, ok := seen[postType]; ok {
			continue
		}
		seen[postType] = struct{}{}
		m.host.AddAction(host.SaveHook(postType), m.saveHandlerID(), m.onSave)
	}
}

// UnregisterSaveAction removes the save handler for postType, or the global
// handler when postType is empty.
func (m *MetaBox) UnregisterSaveAction(postType string) {
	m.host.RemoveAction(host.SaveHook(postType), m.saveHandlerID())
}

func (m *MetaBox) saveHandlerID() string {
	return "metabox." + m.ID() + ".save"
}

func (m *MetaBox) onSave(ctx context.Context, event host.Event) error {
	return m.Save(ctx, event.PostID, "")
}
