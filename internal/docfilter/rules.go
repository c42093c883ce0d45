package docfilter

import (
	"regexp"
	"strings"
)

// Rule rewrites the complete text of a doc comment. Apply must be pure.
type Rule struct {
	Name  string
	Apply func(text string) string
}

var (
	backslashRun      = regexp.MustCompile(`\\+`)
	propertyLinkRe    = regexp.MustCompile(`\{@link (\w+)\}`)
	inlineURLLinkRe   = regexp.MustCompile(`\{@link\s+(.*?://[\w/.%#-]+?)(\s(.*))?\}`)
	blockURLLinkRe    = regexp.MustCompile(`@link\s+(.*?://[\w/.%#-]+)(\s(.*))?`)
	typedArrayVarRe   = regexp.MustCompile(`\*(.*)\n(.*)@var (.*)\[\]`)
	varLineRe         = regexp.MustCompile(`@var .*`)
	typedArrayParamRe = regexp.MustCompile(`@param (\S+)\[\] (\$\S+)`)
	internalRe        = regexp.MustCompile(`@internal(\s)`)
	propertyRe        = regexp.MustCompile(`@property\s+([\w:]+(\[\])?)\s+\$?(\w+)(.*)`)
	propertyReadRe    = regexp.MustCompile(`@property-read\s+([\w:]+(\[\])?)\s+\$?(\w+)(.*)`)
	returnRe          = regexp.MustCompile(`@returns?\s+([\w\[\]|:]+)`)
)

const (
	inheritdocInline  = "{@inheritdoc}"
	inheritdocCommand = "@inheritdoc"
	licenseCommand    = "@license"
	copyrightCommand  = "@copyright"
	fileCommandSuffix = " @file\n"
)

// Rules applied to every doc comment.
var commonRules = []Rule{
	{Name: "namespace_separator", Apply: replaceNamespaceSeparators},
	{Name: "property_link", Apply: prefixPropertyLinks},
	{Name: "inline_url_link", Apply: replaceInlineURLLinks},
	{Name: "block_url_link", Apply: replaceBlockURLLinks},
}

// Rules applied to doc comments before the namespace declaration.
var headerRules = []Rule{
	{Name: "file_command", Apply: insertFileCommand},
	{Name: "license", Apply: renameLicense},
}

// Rules applied to member doc comments after the "@var" handling.
var memberRules = []Rule{
	{Name: "typed_array_param", Apply: rewriteTypedArrayParams},
	{Name: "internal", Apply: renameInternal},
	{Name: "property", Apply: rewriteProperties},
	{Name: "property_read", Apply: rewriteReadOnlyProperties},
	{Name: "return", Apply: rewriteReturns},
	{Name: "inheritdoc", Apply: unwrapInheritdoc},
}

// replaceNamespaceSeparators turns every lone backslash into Doxygen's "::"
// separator. Runs of two or more backslashes are escaped literals and stay.
func replaceNamespaceSeparators(text string) string {
	return backslashRun.ReplaceAllStringFunc(text, func(run string) string {
		if len(run) == 1 {
			return "::"
		}
		return run
	})
}

// prefixPropertyLinks marks bare "{@link name}" targets as properties.
func prefixPropertyLinks(text string) string {
	return propertyLinkRe.ReplaceAllString(text, "{@link $$${1}}")
}

func replaceInlineURLLinks(text string) string {
	return replaceSubmatchFunc(inlineURLLinkRe, text, func(m []string) string {
		return renderLink(m[1], m[2])
	})
}

func replaceBlockURLLinks(text string) string {
	return replaceSubmatchFunc(blockURLLinkRe, text, func(m []string) string {
		return renderLink(m[1], m[2])
	})
}

// renderLink builds an anchor for href. The first line of rest is the link
// text, falling back to href; further lines are kept after the anchor.
func renderLink(href, rest string) string {
	lines := strings.Split(rest, "\n")
	text := strings.TrimSpace(lines[0])
	if text == "" {
		text = href
	}

	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(href)
	b.WriteString(`">`)
	b.WriteString(text)
	b.WriteString(`</a>`)
	if len(lines) > 1 {
		b.WriteString("\n")
		b.WriteString(strings.Join(lines[1:], "\n"))
	}
	return b.String()
}

// insertFileCommand appends "@file" to the first line so Doxygen attaches the
// block to the file instead of the following declaration.
func insertFileCommand(text string) string {
	return strings.Replace(text, "\n", fileCommandSuffix, 1)
}

// renameLicense maps "@license" to "@copyright"; Doxygen has no license command.
func renameLicense(text string) string {
	return strings.ReplaceAll(text, licenseCommand, copyrightCommand)
}

// rewriteTypedArrayVars replaces "@var T[]" with "@var array" and moves the
// type hint to the start of the preceding line.
func rewriteTypedArrayVars(text string) string {
	return typedArrayVarRe.ReplaceAllString(text, "* ${3}[ ]${1}\n${2}@var array")
}

// annotateVar returns a rule appending the variable name to every "@var" line.
// On a single-line comment the name goes before the closing "*/".
func annotateVar(name string) Rule {
	return Rule{
		Name: "var_name",
		Apply: func(text string) string {
			return varLineRe.ReplaceAllStringFunc(text, func(line string) string {
				body, closed := strings.CutSuffix(line, "*/")
				if !closed {
					return line + " " + name
				}
				body = strings.TrimRight(body, " \t")
				return body + " " + name + line[len(body):]
			})
		},
	}
}

// rewriteTypedArrayParams turns "@param T[] $x" into "@param array $x T[ ]".
// The space keeps Doxygen from reading the brackets as markup.
func rewriteTypedArrayParams(text string) string {
	return typedArrayParamRe.ReplaceAllString(text, "@param array ${2} ${1}[ ]")
}

// renameInternal maps "@internal" to "@private", the closest Doxygen command.
func renameInternal(text string) string {
	return internalRe.ReplaceAllString(text, "@private${1}")
}

// rewriteProperties renders magic "@property" lines as a remark.
func rewriteProperties(text string) string {
	return propertyRe.ReplaceAllString(text, "@remark Property <b>${3}</b> <em>(${1})</em>${4}")
}

func rewriteReadOnlyProperties(text string) string {
	return propertyReadRe.ReplaceAllString(text, "@remark Property <b>${3}</b> <em>(${1}, readonly)</em>${4}")
}

func rewriteReturns(text string) string {
	return replaceSubmatchFunc(returnRe, text, func(m []string) string {
		return retval(m[1])
	})
}

// retval builds a "@retval" command from a "|" separated type list. Typed
// arrays become "array" in the type list; when that changes anything the
// original list follows as description.
func retval(typeList string) string {
	description := strings.Split(typeList, "|")
	types := make([]string, len(description))
	changed := false
	for i, t := range description {
		if strings.HasSuffix(t, "[]") {
			types[i] = "array"
			changed = true
		} else {
			types[i] = t
		}
	}

	out := "@retval " + strings.Join(types, " | ")
	if changed {
		out += " " + strings.Join(description, " | ")
	}
	return out
}

// unwrapInheritdoc removes the braces Doxygen would print literally.
func unwrapInheritdoc(text string) string {
	return strings.ReplaceAll(text, inheritdocInline, inheritdocCommand)
}

// replaceSubmatchFunc is ReplaceAllStringFunc with access to submatches.
// Groups that did not participate are passed as empty strings.
func replaceSubmatchFunc(re *regexp.Regexp, text string, repl func([]string) string) string {
	idx := re.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range idx {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(repl(groups))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
