package i18n

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/infra"
	"github.com/iamwavecut/guardbot/resources"
)

var state = struct {
	sync.RWMutex
	translations    map[string]map[string]string
	loaded          map[string]bool
	resourcesPath   string
	defaultLanguage string
}{
	translations:    make(map[string]map[string]string),
	loaded:          make(map[string]bool),
	defaultLanguage: config.Get().DefaultLanguage,
	resourcesPath:   infra.GetResourcesPath("i18n"),
}

func load(lang string) {
	if "en" == lang {
		return
	}

	raw, err := resources.FS.ReadFile(state.resourcesPath + "/" + fmt.Sprintf("%s.yml", lang))
	if err != nil {
		log.WithError(err).Errorln("cant load i18n")
		return
	}
	translations := make(map[string]string)
	if err := yaml.Unmarshal(raw, &translations); err != nil {
		log.WithError(err).Errorln("cant unmarshal i18n")
		return
	}
	state.translations[lang] = translations
	state.loaded[lang] = true
}

// Get returns the translation for key in lang. English keys translate to
// themselves; unknown keys fall back to the key.
func Get(key, lang string) string {
	if "en" == lang {
		return key
	}
	state.Lock()
	if !state.loaded[lang] {
		load(lang)
	}
	res, ok := state.translations[lang][key]
	state.Unlock()
	if ok {
		return res
	}
	log.Tracef(`no translation for key %q`, key)
	return key
}
