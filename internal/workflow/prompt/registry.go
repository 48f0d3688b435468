// Package prompt 管理内嵌的提示词模板
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptCopyCreateV1            PromptID = "copy_create_v1"
	PromptCopyImproveV1           PromptID = "copy_improve_v1"
	PromptCopyAlternativeV1       PromptID = "copy_alternative_v1"
	PromptCopyHeadlineV1          PromptID = "copy_headline_v1"
	PromptCopyHumanizeV1          PromptID = "copy_humanize_v1"
	PromptCopyRestyleV1           PromptID = "copy_restyle_v1"
	PromptCopyRevisionV1          PromptID = "copy_revision_v1"
	PromptCopyRevisionEmergencyV1 PromptID = "copy_revision_emergency_v1"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptCopyCreateV1, PromptCopyImproveV1, PromptCopyAlternativeV1,
		PromptCopyHeadlineV1, PromptCopyHumanizeV1, PromptCopyRestyleV1,
		PromptCopyRevisionV1, PromptCopyRevisionEmergencyV1:
		return fmt.Sprintf("templates/%s.system.txt", id),
			fmt.Sprintf("templates/%s.user.txt", id), nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
