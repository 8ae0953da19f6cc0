package pagina

import (
	"log/slog"

	"github.com/tsawler/pagina/vocab"
	"github.com/tsawler/pagina/web"
)

// convertOptions holds configuration for one conversion.
type convertOptions struct {
	// vocabulary drives the classifier thresholds and the keyword table
	// detector.
	vocabulary vocab.Config

	// title overrides the document title taken from PDF metadata or the
	// file name. Empty means no override.
	title string

	// embedImages controls whether page images are extracted, classified,
	// and embedded in the output.
	embedImages bool

	// affinity and imageRules route detected tables and diagram images
	// into sections; nil means the web package defaults.
	affinity   web.TableAffinity
	imageRules web.ImageRules

	// logger, when set, receives warnings as they are recorded.
	logger *slog.Logger
}

// defaultOptions returns the default conversion options.
func defaultOptions() convertOptions {
	return convertOptions{
		vocabulary:  vocab.Default(),
		embedImages: true,
	}
}

// clone creates a deep copy of convertOptions.
func (o convertOptions) clone() convertOptions {
	newOpts := o

	if o.affinity != nil {
		newOpts.affinity = make(web.TableAffinity, len(o.affinity))
		for sec, kinds := range o.affinity {
			newOpts.affinity[sec] = append(kinds[:0:0], kinds...)
		}
	}
	if o.imageRules != nil {
		newOpts.imageRules = make(web.ImageRules, len(o.imageRules))
		for sec, rule := range o.imageRules {
			newOpts.imageRules[sec] = rule
		}
	}

	return newOpts
}
