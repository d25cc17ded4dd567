package portal

import "html/template"

const layoutTemplate = `{{ define "layout" }}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
</head>
<body>
  <nav id="nav">
    <a href="/">VidFriends</a>
    {{- if eq .Nav.AuthAction "logout" }}
    <form method="post" action="/logout" class="nav-auth"><button type="submit" data-action="{{ .Nav.AuthAction }}">{{ .Nav.AuthLabel }}</button></form>
    {{- else }}
    <a class="nav-auth" href="/?show=auth" data-action="{{ .Nav.AuthAction }}">{{ .Nav.AuthLabel }}</a>
    {{- end }}
    {{- if .Nav.UploadVisible }}
    <a id="upload-link" href="/?show=upload">Upload</a>
    {{- end }}
  </nav>
  {{- with .Flash }}
  <p id="flash" role="alert">{{ . }}</p>
  {{- end }}
  <main>{{ template "content" . }}</main>
</body>
</html>{{ end }}`

const indexTemplate = `{{ define "content" }}
  {{- if .ShowAuth }}
  <section id="auth">
    <form method="post" action="/login" id="login-form">
      <h2>Login</h2>
      <input name="username" placeholder="Username" required>
      <input name="password" type="password" placeholder="Password" required>
      <button type="submit">Login</button>
    </form>
    <form method="post" action="/register" id="register-form">
      <h2>Register</h2>
      <input name="username" placeholder="Username" required>
      <input name="email" type="email" placeholder="Email" required>
      <input name="password" type="password" placeholder="Password" required>
      <select name="role">
        <option value="student">Student</option>
        <option value="teacher">Teacher</option>
      </select>
      <button type="submit">Register</button>
    </form>
  </section>
  {{- end }}
  {{- if .ShowUpload }}
  <section id="upload">
    <form method="post" action="/upload" enctype="multipart/form-data" id="upload-form">
      <h2>Upload video</h2>
      <input name="title" placeholder="Title" required>
      <textarea name="description" placeholder="Description"></textarea>
      <input name="category" placeholder="Category">
      <input name="tags" placeholder="Tags (comma separated)">
      <input name="video" type="file" accept="video/*" required>
      <button type="submit">Upload</button>
    </form>
  </section>
  {{- end }}
  {{ .Feed }}
{{ end }}`

const watchTemplate = `{{ define "content" }}
  {{- with .Video }}
  <article id="watch" data-id="{{ .ID }}">
    <h1>{{ .Title }}</h1>
    <p class="video-description">{{ .Description }}</p>
    <p class="video-stats"><span class="views">{{ .Views }} views</span> <span class="likes">{{ .Likes }} likes</span> <span class="category">{{ .Category }}</span></p>
    {{- with .Tags }}
    <ul class="tags">{{ range . }}<li>{{ . }}</li>{{ end }}</ul>
    {{- end }}
    {{- with .Duration }}<p class="duration">{{ . }}</p>{{ end }}
    {{- with .CreatedAt }}<p class="created">{{ . }}</p>{{ end }}
    <a class="service-watch" href="{{ $.ServiceURL }}">Open on VidFriends</a>
  </article>
  {{- end }}
  <a href="/">Back to feed</a>
{{ end }}`

var (
	indexTmpl = template.Must(template.Must(template.New("index").Parse(layoutTemplate)).Parse(indexTemplate))
	watchTmpl = template.Must(template.Must(template.New("watch").Parse(layoutTemplate)).Parse(watchTemplate))
)
