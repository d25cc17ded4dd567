package render

const feedTemplate = `<section id="feed" class="video-grid">
{{- range . }}
  <article class="video-card" data-id="{{ .ID }}">
    <h3 class="video-title">{{ .Title }}</h3>
    <p class="video-description">{{ truncate .Description }}</p>
    <p class="video-stats"><span class="views">{{ .Views }} views</span> <span class="likes">{{ .Likes }} likes</span> <span class="category">{{ .Category }}</span></p>
    <a class="watch" href="{{ watchPath .ID }}">Watch</a>
  </article>
{{- else }}
  <p class="empty">No videos yet.</p>
{{- end }}
</section>`
