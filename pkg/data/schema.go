package data

import "automoderator/pkg/frame"

// FlagColumns are the moderation flag columns, in label-index order.
var FlagColumns = []string{"flag_1", "flag_2", "flag_3", "flag_4", "flag_5", "flag_6", "flag_7", "flag_8"}

// ContentTypes are the recognised content_type values, in index order.
var ContentTypes = []string{"Message", "Comment", "Post"}

// Schema describes the structure of a dataset: the kind each known column is
// read as. Columns absent from Kinds are inferred from their cells.
type Schema struct {
	Kinds map[string]frame.Kind
}

// DefaultSchema is the layout of content feature exports.
func DefaultSchema() Schema {
	k := map[string]frame.Kind{
		"datetime":          frame.KindTime,
		"date_joined":       frame.KindTime,
		"content_type":      frame.KindString,
		"content_body":      frame.KindString,
		"removed":           frame.KindBool,
		"removed_user":      frame.KindBool,
		"removed_moderator": frame.KindBool,
		"contains_video":    frame.KindBool,
		"contains_image":    frame.KindBool,
		"contains_file":     frame.KindBool,
		"contains_link":     frame.KindBool,
	}
	for _, f := range FlagColumns {
		k[f] = frame.KindFloat
	}
	return Schema{Kinds: k}
}

func isFlag(name string) bool {
	for _, f := range FlagColumns {
		if f == name {
			return true
		}
	}
	return false
}
