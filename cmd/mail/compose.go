package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

var errUnsupportedType = errors.New("不支持的邮件类型")

type mailKind struct {
	file    string
	subject string
}

var mailKinds = map[string]mailKind{
	domain.MailTypeShiftRequested: {file: "shift_requested_email.html", subject: "Shift Calendar - New shift request"},
	domain.MailTypeShiftApproved:  {file: "shift_approved_email.html", subject: "Shift Calendar - Shift approved"},
}

// envelope 与 domain.MailMessage 对应，Data 延迟到确定类型后再解析
type envelope struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

type composer struct {
	from      string
	templates map[string]*template.Template
}

func newComposer(from string, dir string) (*composer, error) {
	c := &composer{from: from, templates: map[string]*template.Template{}}
	for t, k := range mailKinds {
		tmpl, err := template.ParseFiles(filepath.Join(dir, k.file))
		if err != nil {
			return nil, fmt.Errorf("无法解析邮件模板 %s: %w", k.file, err)
		}
		c.templates[t] = tmpl
	}
	return c, nil
}

// compose 根据消息内容构建邮件，返回的错误都表示消息本身有问题，重试也不会成功
func (c *composer) compose(body []byte) (*mail.Msg, error) {
	env := envelope{}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	kind, ok := mailKinds[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnsupportedType, env.Type)
	}

	data := domain.ShiftMailData{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(c.from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(env.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(c.templates[env.Type], data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject(kind.subject)

	return m, nil
}
