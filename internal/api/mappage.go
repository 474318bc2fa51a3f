package api

import "fmt"

// homePage renders the landing page with the loaded-metro count.
func homePage(metros int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Metro Proximity API</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .link { display: block; margin: 20px 0; padding: 15px; background: #f5f5f5; border-radius: 5px; text-decoration: none; color: #0066cc; }
        .link:hover { background: #e5e5e5; }
    </style>
</head>
<body>
    <h1>Metro Proximity API</h1>
    <p>Status: running</p>
    <p>Metros loaded: %d</p>

    <a href="/map" class="link">
        <strong>Interactive Map View</strong><br>
        <small>Visualize metro areas and search addresses</small>
    </a>

    <a href="/check-proximity?lat=40.7128&amp;lon=-74.0060" class="link">
        <strong>API Endpoint</strong><br>
        <small>JSON API for programmatic access</small>
    </a>
</body>
</html>`, metros)
}

// mapPageHTML is the interactive coverage map. It loads metro centroids from
// /metros.geojson and runs address searches through /search, drawing the
// query point, its radius circle, and a dashed line to the nearest metro
// edge.
const mapPageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Metro Coverage Map</title>
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
    <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
    <style>
        body { margin: 0; padding: 0; font-family: Arial, sans-serif; }
        #map { width: 100%; height: 100vh; }
        .search-box {
            position: absolute; top: 10px; left: 50px; z-index: 1000;
            background: white; padding: 15px; border-radius: 5px;
            box-shadow: 0 2px 5px rgba(0,0,0,0.3);
        }
        .search-box input { width: 300px; padding: 10px; border: 1px solid #ddd; border-radius: 3px; font-size: 14px; }
        .search-box button { padding: 10px 20px; background: #0066cc; color: white; border: none; border-radius: 3px; cursor: pointer; font-size: 14px; }
        .search-box button:hover { background: #0052a3; }
        #result { margin-top: 10px; padding: 10px; background: #f0f8ff; border-radius: 3px; display: none; }
        .info-box {
            position: absolute; bottom: 20px; left: 50px; z-index: 1000;
            background: white; padding: 15px; border-radius: 5px;
            box-shadow: 0 2px 5px rgba(0,0,0,0.3); max-width: 300px;
        }
    </style>
</head>
<body>
    <div class="search-box">
        <h3 style="margin-top:0">Search Address</h3>
        <input type="text" id="addressInput" placeholder="Enter address..." onkeypress="if(event.key==='Enter')searchAddress()">
        <button onclick="searchAddress()">Search</button>
        <div id="result"></div>
    </div>

    <div class="info-box">
        <strong>Metro Coverage Map</strong><br>
        <small>Blue circles = 50-mile radius from metro centers<br>
        <strong>Search tips:</strong><br>
        City, State: "Phoenix, AZ" &middot; Zip code: "85718"</small>
    </div>

    <div id="map"></div>

    <script>
        const MILE_METERS = 1609.34;
        const map = L.map('map').setView([39.8283, -98.5795], 4);
        L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
            attribution: '&copy; OpenStreetMap contributors'
        }).addTo(map);

        let marker = null, circle = null, line = null, edgeMarker = null;

        fetch('/metros.geojson')
            .then(r => r.json())
            .then(data => {
                L.geoJSON(data, {
                    pointToLayer: (feature, latlng) => L.circle(latlng, {
                        radius: 50 * MILE_METERS,
                        fillColor: '#3388ff', color: '#0066cc',
                        weight: 2, fillOpacity: 0.15, opacity: 0.5
                    }),
                    onEachFeature: (feature, layer) => {
                        if (feature.properties && feature.properties.name) {
                            layer.bindTooltip(feature.properties.name);
                        }
                    }
                }).addTo(map);
            })
            .catch(err => console.error('Failed to load metro boundaries:', err));

        function clearOverlays() {
            [marker, circle, line, edgeMarker].forEach(l => { if (l) map.removeLayer(l); });
            marker = circle = line = edgeMarker = null;
        }

        async function searchAddress() {
            const address = document.getElementById('addressInput').value;
            const resultDiv = document.getElementById('result');
            if (!address) { alert('Please enter an address'); return; }

            resultDiv.style.display = 'block';
            resultDiv.innerHTML = 'Searching...';

            try {
                const resp = await fetch('/search?address=' + encodeURIComponent(address));
                if (!resp.ok) {
                    const body = await resp.json();
                    resultDiv.innerHTML = '<span style="color: red;">' + (body.error || 'search failed') + '</span>';
                    return;
                }
                const data = await resp.json();
                const p = data.proximity;

                clearOverlays();
                marker = L.marker([data.lat, data.lon]).addTo(map);
                circle = L.circle([data.lat, data.lon], {
                    radius: 50 * MILE_METERS,
                    color: p.within_range ? 'green' : 'red',
                    fillColor: p.within_range ? '#90EE90' : '#FFB6C1',
                    fillOpacity: 0.2, weight: 2
                }).addTo(map);

                if (!p.excluded && !p.is_inside_metro && p.nearest_metro && p.nearest_metro.edge_coords) {
                    const edge = p.nearest_metro.edge_coords;
                    line = L.polyline([[data.lat, data.lon], edge], {
                        color: p.within_range ? 'blue' : 'red',
                        weight: 3, opacity: 0.7, dashArray: '10, 10'
                    }).addTo(map);
                    edgeMarker = L.circleMarker(edge, {
                        radius: 6, fillColor: p.within_range ? 'blue' : 'red',
                        color: '#fff', weight: 2, opacity: 1, fillOpacity: 0.8
                    }).addTo(map).bindPopup('Nearest point on ' + p.nearest_metro.name + ' boundary');
                }

                map.setView([data.lat, data.lon], 8);

                if (p.excluded) {
                    circle.setStyle({color: 'orange', fillColor: '#FFA500'});
                    marker.bindPopup('<b>' + data.display_name + '</b><br>Excluded state: ' + p.excluded_state).openPopup();
                    resultDiv.innerHTML = '<strong style="color: #ff6600;">Excluded State</strong><br>' + p.message;
                } else if (p.within_range) {
                    marker.bindPopup('<b>' + data.display_name + '</b><br>Within range').openPopup();
                    resultDiv.innerHTML = '<strong style="color: green;">Within Range</strong><br>' +
                        (p.is_inside_metro ? 'Inside' : 'Near') + ': ' + p.nearest_metro.name + '<br>' +
                        'Distance: ' + p.nearest_metro.distance_to_edge_miles + ' miles to edge';
                } else {
                    marker.bindPopup('<b>' + data.display_name + '</b><br>Outside range').openPopup();
                    resultDiv.innerHTML = '<strong style="color: red;">Outside Range</strong><br>' +
                        'Nearest: ' + p.nearest_metro.name + '<br>' +
                        'Distance: ' + p.nearest_metro.distance_to_edge_miles + ' miles away';
                }
            } catch (err) {
                resultDiv.innerHTML = '<span style="color: red;">Error: ' + err.message + '</span>';
            }
        }
    </script>
</body>
</html>`
